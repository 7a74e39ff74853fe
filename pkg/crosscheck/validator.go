// Package crosscheck validates sysfs interface counters against independent
// kernel sources and checks snapshots against physical constraints.
package crosscheck

import (
	"math"
	"slices"

	"github.com/danpilch/ifstat/pkg/collectors/network"
)

// ValidationStatus indicates the confidence level of a cross-checked counter.
type ValidationStatus string

const (
	StatusValid    ValidationStatus = "valid"
	StatusSuspect  ValidationStatus = "suspect"
	StatusConflict ValidationStatus = "conflict"
)

// Source is one reading of a counter from a specific source.
type Source struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

// ValidationResult holds the cross-check outcome for one interface counter.
type ValidationResult struct {
	Interface    string           `json:"interface"`
	Counter      network.Counter  `json:"counter"`
	Sources      []Source         `json:"sources"`
	Consensus    uint64           `json:"consensus"`
	MaxDeviation float64          `json:"max_deviation_pct"`
	Status       ValidationStatus `json:"status"`
}

// Metric returns the "<interface> <counter>" label used in reports.
func (r ValidationResult) Metric() string {
	return r.Interface + " " + string(r.Counter)
}

// Validator cross-checks counters read from multiple sources. Sources are
// read a few microseconds apart, so busy interfaces show small deviations.
type Validator struct {
	SuspectThreshold  float64 // deviation % to mark suspect (default 5%)
	ConflictThreshold float64 // deviation % to mark conflict (default 20%)
}

// NewValidator creates a validator with default thresholds.
func NewValidator() *Validator {
	return &Validator{
		SuspectThreshold:  5.0,
		ConflictThreshold: 20.0,
	}
}

// CrossCheck compares the readings of one counter. The consensus is the
// median reading; the deviation of every reading is measured against it.
func (v *Validator) CrossCheck(iface string, counter network.Counter, sources []Source) ValidationResult {
	result := ValidationResult{
		Interface: iface,
		Counter:   counter,
		Sources:   sources,
		Status:    StatusValid,
	}

	switch len(sources) {
	case 0:
		return result
	case 1:
		result.Consensus = sources[0].Value
		return result
	}

	values := make([]uint64, len(sources))
	for i, s := range sources {
		values[i] = s.Value
	}
	slices.Sort(values)

	mid := len(values) / 2
	if len(values)%2 == 0 {
		// Average without overflowing near MaxUint64.
		lo, hi := values[mid-1], values[mid]
		result.Consensus = lo + (hi-lo)/2
	} else {
		result.Consensus = values[mid]
	}

	for _, val := range values {
		if result.Consensus == 0 {
			if val != 0 {
				result.MaxDeviation = 100.0
			}
			continue
		}
		dev := math.Abs(float64(val)-float64(result.Consensus)) / float64(result.Consensus) * 100
		if dev > result.MaxDeviation {
			result.MaxDeviation = dev
		}
	}

	if result.MaxDeviation >= v.ConflictThreshold {
		result.Status = StatusConflict
	} else if result.MaxDeviation >= v.SuspectThreshold {
		result.Status = StatusSuspect
	}

	return result
}
