package crosscheck

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danpilch/ifstat/pkg/collectors/network"
)

// CounterSource reads traffic counters for every interface it knows about.
type CounterSource interface {
	Name() string
	Counters() (map[string]network.Counters, error)
}

// ProcNetDev reads counters from a /proc/net/dev formatted file.
type ProcNetDev struct {
	Path string
}

// NewProcNetDev creates a source for path, or /proc/net/dev if path is empty.
func NewProcNetDev(path string) *ProcNetDev {
	if path == "" {
		path = "/proc/net/dev"
	}
	return &ProcNetDev{Path: path}
}

// Name returns the file the source reads.
func (p *ProcNetDev) Name() string {
	return p.Path
}

// Counters parses the file. Speed is not part of /proc/net/dev and is left at 0.
func (p *ProcNetDev) Counters() (map[string]network.Counters, error) {
	file, err := os.Open(p.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stats := make(map[string]network.Counters)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		// Skip header lines
		if lineNum <= 2 {
			continue
		}

		name, rest, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) < 16 {
			return nil, fmt.Errorf("%s line %d: expected 16 fields, got %d", p.Path, lineNum, len(fields))
		}

		var c network.Counters
		for i, counter := range procNetDevColumns {
			if counter == "" {
				continue
			}
			v, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %s: %w", p.Path, lineNum, counter, err)
			}
			c.Set(counter, v)
		}
		stats[strings.TrimSpace(name)] = c
	}

	return stats, scanner.Err()
}

// procNetDevColumns maps /proc/net/dev columns to counters. Columns without
// a sysfs equivalent here (fifo, frame, compressed, multicast, ...) are empty.
var procNetDevColumns = [16]network.Counter{
	0:  network.RxBytes,
	1:  network.RxPackets,
	2:  network.RxErrors,
	3:  network.RxDropped,
	8:  network.TxBytes,
	9:  network.TxPackets,
	10: network.TxErrors,
	11: network.TxDropped,
}
