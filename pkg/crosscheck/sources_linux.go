//go:build linux

package crosscheck

import (
	"github.com/danpilch/ifstat/pkg/collectors/network"
	"github.com/vishvananda/netlink"
)

// NetlinkSource reads the IFLA_STATS64 block the kernel attaches to every
// RTM_NEWLINK message.
type NetlinkSource struct{}

// Name returns "netlink".
func (NetlinkSource) Name() string {
	return "netlink"
}

// Counters lists links and copies their kernel statistics.
func (NetlinkSource) Counters() (map[string]network.Counters, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, err
	}

	stats := make(map[string]network.Counters, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		if attrs == nil || attrs.Statistics == nil {
			continue
		}
		s := attrs.Statistics
		stats[attrs.Name] = network.Counters{
			RxBytes:   s.RxBytes,
			RxPackets: s.RxPackets,
			RxErrors:  s.RxErrors,
			RxDropped: s.RxDropped,
			TxBytes:   s.TxBytes,
			TxPackets: s.TxPackets,
			TxErrors:  s.TxErrors,
			TxDropped: s.TxDropped,
		}
	}
	return stats, nil
}

// DefaultSources returns the independent counter sources available on Linux.
func DefaultSources() []CounterSource {
	return []CounterSource{
		NewProcNetDev(""),
		NetlinkSource{},
	}
}
