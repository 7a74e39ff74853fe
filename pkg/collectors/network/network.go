// Package network provides point-in-time network interface statistics collection.
//
// A Collector enumerates the host's interface address entries, keeps every
// interface that has an IPv4 entry, and reads its traffic counters and link
// speed from sysfs. Each call to Collect is an independent snapshot; nothing is
// retained between polls.
package network

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// ErrEnumerate is returned by Collect when the interface list cannot be obtained at all.
var ErrEnumerate = errors.New("cannot enumerate network interfaces")

// InterfaceStats holds the identity and counters of one network interface.
type InterfaceStats struct {
	Name        string `json:"name"`
	IPv4Address string `json:"ipv4_address"`
	IPv6Address string `json:"ipv6_address"`
	Counters
}

// Snapshot is the result of one collection pass.
type Snapshot struct {
	CollectedAt time.Time        `json:"collected_at"`
	Interfaces  []InterfaceStats `json:"interfaces"`
	Warnings    []*Warning       `json:"-"`
}

// Err folds the snapshot warnings into a single error, or nil when there are none.
func (s *Snapshot) Err() error {
	var result *multierror.Error
	for _, w := range s.Warnings {
		result = multierror.Append(result, w)
	}
	return result.ErrorOrNil()
}

// Collector gathers network interface statistics.
type Collector struct {
	enumerator Enumerator
	counters   *CounterReader
	logger     logrus.FieldLogger
	now        func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithEnumerator sets the source of interface address entries.
func WithEnumerator(e Enumerator) Option {
	return func(c *Collector) {
		c.enumerator = e
	}
}

// WithCounterReader sets the reader used for per-interface counters.
func WithCounterReader(r *CounterReader) Option {
	return func(c *Collector) {
		c.counters = r
	}
}

// WithSysfsRoot reads counters below root instead of /sys/class/net.
func WithSysfsRoot(root string) Option {
	return func(c *Collector) {
		c.counters = NewCounterReader(root)
	}
}

// WithLogger sets the logger that receives warnings and fatal errors.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// New creates a new network collector.
func New(opts ...Option) *Collector {
	c := &Collector{
		enumerator: DefaultEnumerator(),
		counters:   NewCounterReader(DefaultSysfsRoot),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		c.logger = logger
	}
	return c
}

// Name returns the collector name.
func (c *Collector) Name() string {
	return "Network"
}

// Collect takes one snapshot of every interface that has an IPv4 address entry.
//
// A failure to enumerate interfaces is fatal: it is logged once and returned
// wrapped in ErrEnumerate with a nil snapshot. Every other failure is recorded
// as a Warning on the snapshot and the affected field is left at its zero value.
func (c *Collector) Collect() (*Snapshot, error) {
	entries, err := c.enumerator.Entries()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrEnumerate, err)
		c.logger.
			WithField("collector", c.Name()).
			WithError(err).
			Error("Interface enumeration failed")
		return nil, err
	}

	p := &poll{logger: c.logger.WithField("collector", c.Name())}
	ifaces := p.group(entries)

	snapshot := &Snapshot{
		CollectedAt: c.now(),
		Interfaces:  make([]InterfaceStats, 0, len(ifaces)),
	}
	for _, iface := range ifaces {
		counters, errs := c.counters.ReadAll(iface.name)
		for _, err := range errs {
			p.warn(err)
		}
		snapshot.Interfaces = append(snapshot.Interfaces, InterfaceStats{
			Name:        iface.name,
			IPv4Address: addrString(iface.ipv4),
			IPv6Address: addrString(iface.ipv6),
			Counters:    counters,
		})
	}
	snapshot.Warnings = p.warnings

	return snapshot, nil
}

// poll carries the diagnostics of a single Collect call.
type poll struct {
	logger   logrus.FieldLogger
	warnings []*Warning
}

func (p *poll) warn(err error) {
	var w *Warning
	if !errors.As(err, &w) {
		w = &Warning{Err: err}
	}
	p.logger.WithFields(logrus.Fields{
		"interface": w.Interface,
		"field":     w.Field,
		"path":      w.Path,
	}).WithError(w.Err).Warn("Network statistic unavailable")
	p.warnings = append(p.warnings, w)
}

type interfaceAddrs struct {
	name string
	ipv4 netip.Addr
	ipv6 netip.Addr
}

// group folds address entries into one interfaceAddrs per interface that has
// an IPv4 entry, in the order the first IPv4 entry of each interface was seen.
func (p *poll) group(entries []Entry) []*interfaceAddrs {
	var (
		ordered []*interfaceAddrs
		byName  = make(map[string]*interfaceAddrs)
		ipv6    = make(map[string]netip.Addr)
	)

	for _, e := range entries {
		if e.Err != nil {
			p.warn(&Warning{Interface: e.Name, Field: fieldAddress, Err: e.Err})
			continue
		}
		if e.Name == "" || e.Addr == nil {
			continue
		}

		addr, err := ResolveNumeric(e.Addr)
		if err != nil {
			p.warn(&Warning{Interface: e.Name, Field: fieldAddress, Err: err})
			continue
		}

		if addr.Is4() {
			if _, seen := byName[e.Name]; seen {
				continue
			}
			iface := &interfaceAddrs{name: e.Name, ipv4: addr}
			byName[e.Name] = iface
			ordered = append(ordered, iface)
			continue
		}

		if prev, ok := ipv6[e.Name]; !ok || preferIPv6(addr, prev) {
			ipv6[e.Name] = addr
		}
	}

	for _, iface := range ordered {
		iface.ipv6 = ipv6[iface.name]
	}
	return ordered
}

// preferIPv6 reports whether candidate should replace current as the
// interface's reported IPv6 address.
func preferIPv6(candidate, current netip.Addr) bool {
	return candidate.IsGlobalUnicast() && !current.IsGlobalUnicast()
}

func addrString(a netip.Addr) string {
	if !a.IsValid() {
		return ""
	}
	return a.String()
}
