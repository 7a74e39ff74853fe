package network

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultSysfsRoot is where the kernel exposes per-interface statistics.
const DefaultSysfsRoot = "/sys/class/net"

// Counter names a single per-interface statistic file.
type Counter string

const (
	RxBytes   Counter = "rx_bytes"
	RxPackets Counter = "rx_packets"
	RxErrors  Counter = "rx_errors"
	RxDropped Counter = "rx_dropped"
	TxBytes   Counter = "tx_bytes"
	TxPackets Counter = "tx_packets"
	TxErrors  Counter = "tx_errors"
	TxDropped Counter = "tx_dropped"

	// Speed is the link speed in Mb/s. It lives next to the statistics
	// directory rather than inside it.
	Speed Counter = "speed"
)

// AllCounters lists every counter read for an interface, in read order.
var AllCounters = []Counter{
	Speed,
	RxBytes, TxBytes,
	RxPackets, TxPackets,
	RxErrors, TxErrors,
	RxDropped, TxDropped,
}

// TrafficCounters lists the cumulative rx/tx counters, without Speed.
var TrafficCounters = AllCounters[1:]

var errInvalidName = errors.New("invalid name")

// Counters holds the values of all counters for one interface.
type Counters struct {
	SpeedMbps uint64 `json:"speed_mbps"`
	TxBytes   uint64 `json:"tx_bytes"`
	TxPackets uint64 `json:"tx_packets"`
	TxErrors  uint64 `json:"tx_errors"`
	TxDropped uint64 `json:"tx_dropped"`
	RxBytes   uint64 `json:"rx_bytes"`
	RxPackets uint64 `json:"rx_packets"`
	RxErrors  uint64 `json:"rx_errors"`
	RxDropped uint64 `json:"rx_dropped"`
}

// Get returns the value of the named counter, or 0 for an unknown name.
func (c Counters) Get(counter Counter) uint64 {
	if p := c.field(counter); p != nil {
		return *p
	}
	return 0
}

// Set stores v in the named counter. Unknown names are ignored.
func (c *Counters) Set(counter Counter, v uint64) {
	if p := c.field(counter); p != nil {
		*p = v
	}
}

func (c *Counters) field(counter Counter) *uint64 {
	switch counter {
	case Speed:
		return &c.SpeedMbps
	case RxBytes:
		return &c.RxBytes
	case RxPackets:
		return &c.RxPackets
	case RxErrors:
		return &c.RxErrors
	case RxDropped:
		return &c.RxDropped
	case TxBytes:
		return &c.TxBytes
	case TxPackets:
		return &c.TxPackets
	case TxErrors:
		return &c.TxErrors
	case TxDropped:
		return &c.TxDropped
	}
	return nil
}

// CounterReader reads per-interface counters from a sysfs-style tree.
// It holds no mutable state and is safe for concurrent use.
type CounterReader struct {
	root string
}

// NewCounterReader creates a reader rooted at root, or DefaultSysfsRoot if root is empty.
func NewCounterReader(root string) *CounterReader {
	if root == "" {
		root = DefaultSysfsRoot
	}
	return &CounterReader{root: filepath.Clean(root)}
}

// Root returns the directory the reader resolves interface names against.
func (r *CounterReader) Root() string {
	return r.root
}

// Path maps an interface and counter to the file holding its value.
func (r *CounterReader) Path(iface string, counter Counter) (string, error) {
	if !validName(iface) {
		return "", fmt.Errorf("%w: interface %q", errInvalidName, iface)
	}
	if !validName(string(counter)) {
		return "", fmt.Errorf("%w: counter %q", errInvalidName, counter)
	}
	if counter == Speed {
		return filepath.Join(r.root, iface, string(Speed)), nil
	}
	return filepath.Join(r.root, iface, "statistics", string(counter)), nil
}

// Read returns the value of one counter. The value is always usable: when the
// counter cannot be read it is 0 and the returned error is a *Warning
// describing why.
func (r *CounterReader) Read(iface string, counter Counter) (uint64, error) {
	path, err := r.Path(iface, counter)
	if err != nil {
		return 0, &Warning{Interface: iface, Field: string(counter), Err: err}
	}

	v, err := readFirstLine(path, counter)
	if err != nil {
		return 0, &Warning{Interface: iface, Field: string(counter), Path: path, Err: err}
	}
	return v, nil
}

// ReadAll reads every counter in AllCounters for iface. Each unreadable
// counter contributes one error and is left at 0.
func (r *CounterReader) ReadAll(iface string) (Counters, []error) {
	var (
		counters Counters
		errs     []error
	)
	for _, counter := range AllCounters {
		v, err := r.Read(iface, counter)
		if err != nil {
			errs = append(errs, err)
		}
		counters.Set(counter, v)
	}
	return counters, errs
}

func readFirstLine(path string, counter Counter) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	line, err := bufio.NewReader(file).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	return parseCounter(counter, line)
}

func parseCounter(counter Counter, line string) (uint64, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		// SPEED_UNKNOWN
		if counter == Speed && s == "-1" {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
