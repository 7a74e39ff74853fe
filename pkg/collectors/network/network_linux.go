//go:build linux

package network

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// NetlinkEnumerator enumerates links and their addresses over rtnetlink.
type NetlinkEnumerator struct{}

// Entries lists every link and its addresses. A link whose addresses cannot
// be listed yields a single entry carrying the error.
func (NetlinkEnumerator) Entries() ([]Entry, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("cannot list links: %w", err)
	}

	var entries []Entry
	for _, link := range links {
		name := link.Attrs().Name

		addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			entries = append(entries, Entry{Name: name, Err: fmt.Errorf("cannot list addresses: %w", err)})
			continue
		}
		if len(addrs) == 0 {
			entries = append(entries, Entry{Name: name})
			continue
		}
		for _, addr := range addrs {
			if addr.IPNet == nil {
				entries = append(entries, Entry{Name: name})
				continue
			}
			entries = append(entries, Entry{Name: name, Addr: addr.IPNet})
		}
	}
	return entries, nil
}

// DefaultEnumerator returns the rtnetlink enumerator.
func DefaultEnumerator() Enumerator {
	return NetlinkEnumerator{}
}

// EnumeratorByName returns the enumerator called name: "auto", "netlink" or "net".
func EnumeratorByName(name string) (Enumerator, error) {
	switch name {
	case "", "auto", "netlink":
		return NetlinkEnumerator{}, nil
	case "net":
		return NetEnumerator{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEnumerator, name)
}
