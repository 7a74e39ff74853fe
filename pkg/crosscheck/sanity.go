package crosscheck

import (
	"fmt"
	"net/netip"

	"github.com/danpilch/ifstat/pkg/collectors/network"
)

// MaxSpeedMbps is the fastest link speed considered plausible (800GbE).
const MaxSpeedMbps = 800000

// SanityResult holds the outcome of a physical constraint check.
type SanityResult struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// RunSanityChecks validates a snapshot against physical constraints.
func RunSanityChecks(snapshot *network.Snapshot) []SanityResult {
	var results []SanityResult
	seen := make(map[string]bool, len(snapshot.Interfaces))

	for _, s := range snapshot.Interfaces {
		if seen[s.Name] {
			results = append(results, SanityResult{
				Check:   fmt.Sprintf("%s unique", s.Name),
				Passed:  false,
				Details: "interface reported more than once",
			})
		}
		seen[s.Name] = true

		// Every packet carries at least one byte.
		results = append(results,
			bytesCoverPackets(s.Name, "rx", s.RxBytes, s.RxPackets),
			bytesCoverPackets(s.Name, "tx", s.TxBytes, s.TxPackets),
		)

		if s.SpeedMbps > MaxSpeedMbps {
			results = append(results, SanityResult{
				Check:   fmt.Sprintf("%s speed", s.Name),
				Passed:  false,
				Details: fmt.Sprintf("%d Mb/s exceeds %d Mb/s", s.SpeedMbps, MaxSpeedMbps),
			})
		}

		if _, err := netip.ParseAddr(s.IPv4Address); err != nil {
			results = append(results, SanityResult{
				Check:   fmt.Sprintf("%s ipv4 address", s.Name),
				Passed:  false,
				Details: fmt.Sprintf("%q is not a numeric address", s.IPv4Address),
			})
		}
	}

	return results
}

func bytesCoverPackets(iface, dir string, bytes, packets uint64) SanityResult {
	return SanityResult{
		Check:   fmt.Sprintf("%s %s bytes >= packets", iface, dir),
		Passed:  bytes >= packets,
		Details: fmt.Sprintf("%d bytes, %d packets", bytes, packets),
	}
}
