package crosscheck

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/danpilch/ifstat/pkg/collectors/network"
	"github.com/sirupsen/logrus"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	validStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	suspectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	passStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// SysfsSourceName labels readings taken from the snapshot itself.
const SysfsSourceName = "sysfs"

// Report outputs cross-check validation results and sanity checks as styled tables.
func Report(w io.Writer, validations []ValidationResult, sanity []SanityResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Cross-Check Validation Report"))
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("═", 60)))

	if len(validations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Counter Cross-Checks"))

		rows := make([][]string, len(validations))
		conflicts, suspects := 0, 0
		for i, v := range validations {
			sourceValues := make([]string, len(v.Sources))
			for j, s := range v.Sources {
				sourceValues[j] = fmt.Sprintf("%s=%d", s.Name, s.Value)
			}
			var status string
			switch v.Status {
			case StatusConflict:
				status = conflictStyle.Render("CONFLICT")
				conflicts++
			case StatusSuspect:
				status = suspectStyle.Render("SUSPECT")
				suspects++
			default:
				status = validStyle.Render("VALID")
			}
			rows[i] = []string{
				v.Metric(),
				fmt.Sprintf("%d", v.Consensus),
				fmt.Sprintf("%.1f%%", v.MaxDeviation),
				status,
				dimStyle.Render(strings.Join(sourceValues, ", ")),
			}
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(dimStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Headers("COUNTER", "CONSENSUS", "MAX DEV", "STATUS", "SOURCES").
			Rows(rows...)
		fmt.Fprintln(w, t)
		fmt.Fprintf(w, "  %d counters, %d suspect, %d conflicting\n", len(validations), suspects, conflicts)
	}

	if len(sanity) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Sanity Checks"))
		failed := 0
		for _, s := range sanity {
			var icon string
			if s.Passed {
				icon = passStyle.Render("PASS")
			} else {
				icon = failStyle.Render("FAIL")
				failed++
			}
			fmt.Fprintf(w, "  [%s] %-40s %s\n", icon, s.Check, dimStyle.Render(s.Details))
		}
		fmt.Fprintln(w)
		if failed == 0 {
			fmt.Fprintf(w, "  %s\n", passStyle.Render(fmt.Sprintf("All %d sanity checks passed.", len(sanity))))
		} else {
			fmt.Fprintf(w, "  %s\n", failStyle.Render(fmt.Sprintf("%d of %d sanity checks failed.", failed, len(sanity))))
		}
	}
}

// ReportJSON outputs cross-check results as JSON.
func ReportJSON(w io.Writer, validations []ValidationResult, sanity []SanityResult) error {
	if validations == nil {
		validations = []ValidationResult{}
	}
	if sanity == nil {
		sanity = []SanityResult{}
	}
	output := struct {
		Validations []ValidationResult `json:"validations"`
		Sanity      []SanityResult     `json:"sanity"`
	}{
		Validations: validations,
		Sanity:      sanity,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// RunCrossChecks compares every traffic counter of the snapshot with the
// same counter read from each source. A source that fails is logged and
// skipped; interfaces a source does not know are compared without it.
func RunCrossChecks(snapshot *network.Snapshot, sources []CounterSource, logger logrus.FieldLogger) ([]ValidationResult, []SanityResult) {
	validator := NewValidator()

	readings := make(map[string]map[string]network.Counters, len(sources))
	var names []string
	for _, src := range sources {
		stats, err := src.Counters()
		if err != nil {
			logger.WithField("source", src.Name()).WithError(err).Warn("Cross-check source unavailable")
			continue
		}
		readings[src.Name()] = stats
		names = append(names, src.Name())
	}

	var validations []ValidationResult
	for _, s := range snapshot.Interfaces {
		for _, counter := range network.TrafficCounters {
			values := []Source{{Name: SysfsSourceName, Value: s.Get(counter)}}
			for _, name := range names {
				if c, ok := readings[name][s.Name]; ok {
					values = append(values, Source{Name: name, Value: c.Get(counter)})
				}
			}
			validations = append(validations, validator.CrossCheck(s.Name, counter, values))
		}
	}

	return validations, RunSanityChecks(snapshot)
}
