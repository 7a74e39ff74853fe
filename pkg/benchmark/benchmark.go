// Package benchmark measures how long a full interface poll takes and what
// it costs the process.
package benchmark

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/danpilch/ifstat/pkg/collectors/network"
)

// Snapshotter is a named source of snapshots.
type Snapshotter interface {
	Name() string
	Collect() (*network.Snapshot, error)
}

// Options configures a benchmark run.
type Options struct {
	Iterations int
	Warmup     int
}

// DefaultOptions returns sensible benchmark defaults.
func DefaultOptions() Options {
	return Options{
		Iterations: 20,
		Warmup:     3,
	}
}

// Result holds benchmark results for a single collector.
type Result struct {
	Collector  string
	Latencies  []time.Duration
	P50        time.Duration
	P95        time.Duration
	P99        time.Duration
	Failures   int
	Interfaces int
	Warnings   int
	Overhead   Overhead
}

// Overhead holds the allocations made while benchmarking.
type Overhead struct {
	AllocBytes uint64
	AllocCount uint64
	GCPauses   uint32
}

var (
	bmTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	bmHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	bmDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Run polls col opts.Iterations times after opts.Warmup discarded polls.
// Interfaces and Warnings describe the last successful poll.
func Run(col Snapshotter, opts Options) Result {
	for i := 0; i < opts.Warmup; i++ {
		_, _ = col.Collect()
	}

	result := Result{Collector: col.Name()}
	latencies := make([]time.Duration, opts.Iterations)

	before := measureOverhead()
	for i := 0; i < opts.Iterations; i++ {
		start := time.Now()
		snapshot, err := col.Collect()
		latencies[i] = time.Since(start)

		if err != nil {
			result.Failures++
			continue
		}
		result.Interfaces = len(snapshot.Interfaces)
		result.Warnings = len(snapshot.Warnings)
	}
	after := measureOverhead()

	slices.Sort(latencies)
	result.Latencies = latencies
	result.P50 = percentile(latencies, 0.50)
	result.P95 = percentile(latencies, 0.95)
	result.P99 = percentile(latencies, 0.99)
	result.Overhead = Overhead{
		AllocBytes: after.AllocBytes - before.AllocBytes,
		AllocCount: after.AllocCount - before.AllocCount,
		GCPauses:   after.GCPauses - before.GCPauses,
	}
	return result
}

func measureOverhead() Overhead {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return Overhead{
		AllocBytes: m.TotalAlloc,
		AllocCount: m.Mallocs,
		GCPauses:   m.NumGC,
	}
}

// RenderResults outputs styled benchmark results.
func RenderResults(w io.Writer, r Result) {
	fmt.Fprintln(w, bmTitle.Render("Self-Benchmark Results"))
	fmt.Fprintln(w, bmDim.Render(strings.Repeat("═", 70)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s %s %s %s\n",
		bmHeader.Render("COLLECTOR          "),
		bmHeader.Render("P50        "),
		bmHeader.Render("P95        "),
		bmHeader.Render("P99        "),
		bmHeader.Render("FAILURES"))
	fmt.Fprintln(w, "  "+bmDim.Render(strings.Repeat("─", 70)))
	fmt.Fprintf(w, "  %-20s %-12v %-12v %-12v %d/%d\n",
		r.Collector, r.P50, r.P95, r.P99, r.Failures, len(r.Latencies))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", bmDim.Render(fmt.Sprintf("%d interfaces, %d warnings per poll", r.Interfaces, r.Warnings)))

	polls := uint64(max(len(r.Latencies), 1))
	fmt.Fprintln(w)
	fmt.Fprintln(w, bmTitle.Render("Tool Overhead"))
	fmt.Fprintln(w, bmDim.Render(strings.Repeat("─", 40)))
	fmt.Fprintf(w, "  Memory per poll:  %s\n", lipgloss.NewStyle().Bold(true).Render(formatBytes(r.Overhead.AllocBytes/polls)))
	fmt.Fprintf(w, "  Allocs per poll:  %s\n", lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d", r.Overhead.AllocCount/polls)))
	fmt.Fprintf(w, "  GC pauses:        %s\n", lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d", r.Overhead.GCPauses)))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
