package network

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
)

var (
	// ErrUnsupportedAddr is returned for address types that carry no IP.
	ErrUnsupportedAddr = errors.New("unsupported address type")

	// ErrInvalidAddr is returned for IPs that are neither 4 nor 16 bytes long.
	ErrInvalidAddr = errors.New("invalid IP address")

	// ErrUnknownEnumerator is returned by EnumeratorByName for unrecognised or
	// unavailable enumerators.
	ErrUnknownEnumerator = errors.New("unknown enumerator")
)

// Entry is one interface address entry. An interface may produce several
// entries, one per address. Addr is nil for an interface that reported no
// address data; Err is set when its address data could not be obtained.
type Entry struct {
	Name string
	Addr net.Addr
	Err  error
}

// Enumerator lists the host's interface address entries.
type Enumerator interface {
	Entries() ([]Entry, error)
}

// EnumeratorFunc adapts a function to the Enumerator interface.
type EnumeratorFunc func() ([]Entry, error)

// Entries calls f.
func (f EnumeratorFunc) Entries() ([]Entry, error) {
	return f()
}

// NetEnumerator enumerates through the Go net package.
type NetEnumerator struct{}

// Entries lists every interface and its unicast addresses.
func (NetEnumerator) Entries() ([]Entry, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("cannot list interfaces: %w", err)
	}

	var entries []Entry
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			entries = append(entries, Entry{Name: iface.Name, Err: err})
			continue
		}
		if len(addrs) == 0 {
			entries = append(entries, Entry{Name: iface.Name})
			continue
		}
		for _, addr := range addrs {
			entries = append(entries, Entry{Name: iface.Name, Addr: addr})
		}
	}
	return entries, nil
}

// ResolveNumeric converts an interface address to its numeric form without
// any name lookup. IPv4-mapped IPv6 addresses are returned as IPv4.
func ResolveNumeric(addr net.Addr) (netip.Addr, error) {
	var (
		ip   net.IP
		zone string
	)
	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip, zone = v.IP, v.Zone
	default:
		return netip.Addr{}, fmt.Errorf("%w: %T", ErrUnsupportedAddr, addr)
	}

	a, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}, fmt.Errorf("%w: %d bytes", ErrInvalidAddr, len(ip))
	}
	a = a.Unmap()
	if zone != "" && a.Is6() {
		a = a.WithZone(zone)
	}
	return a, nil
}
