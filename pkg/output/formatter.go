// Package output provides formatters for displaying network interface snapshots.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/danpilch/ifstat/pkg/collectors/network"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatTSV   Format = "tsv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatTSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Formatter handles output formatting.
type Formatter struct {
	format Format
	writer io.Writer
	host   HostInfo
}

// NewFormatter creates a new formatter.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
		host:   CurrentHost(),
	}
}

// Render outputs the snapshot in the configured format.
func (f *Formatter) Render(snapshot *network.Snapshot) error {
	switch f.format {
	case FormatJSON:
		return f.renderJSON(snapshot)
	case FormatTSV:
		return f.renderTSV(snapshot)
	default:
		return f.renderTable(snapshot)
	}
}

// Document is the JSON form of a snapshot.
type Document struct {
	Host        HostInfo                 `json:"host"`
	CollectedAt time.Time                `json:"collected_at"`
	Interfaces  []network.InterfaceStats `json:"interfaces"`
	Warnings    []string                 `json:"warnings"`
}

// NewDocument builds the JSON form of a snapshot.
func NewDocument(host HostInfo, snapshot *network.Snapshot) Document {
	warnings := make([]string, 0, len(snapshot.Warnings))
	for _, w := range snapshot.Warnings {
		warnings = append(warnings, w.Error())
	}
	interfaces := snapshot.Interfaces
	if interfaces == nil {
		interfaces = []network.InterfaceStats{}
	}
	return Document{
		Host:        host,
		CollectedAt: snapshot.CollectedAt,
		Interfaces:  interfaces,
		Warnings:    warnings,
	}
}

func (f *Formatter) renderJSON(snapshot *network.Snapshot) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(f.host, snapshot))
}

func (f *Formatter) renderTable(snapshot *network.Snapshot) error {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	numberStyle := cellStyle.Align(lipgloss.Right)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Padding(0, 1).Align(lipgloss.Right)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	fmt.Fprintln(f.writer, titleStyle.Render("Network Interfaces"))
	fmt.Fprintln(f.writer, dimStyle.Render(fmt.Sprintf("%s at %s", f.host, snapshot.CollectedAt.Format(time.RFC3339))))
	fmt.Fprintln(f.writer, strings.Repeat("═", 60))
	fmt.Fprintln(f.writer)

	headers := []string{
		"INTERFACE", "IPV4", "IPV6", "SPEED",
		"RX", "RX PKTS", "RX ERR", "RX DROP",
		"TX", "TX PKTS", "TX ERR", "TX DROP",
	}
	// Columns holding error and drop counters.
	problemCols := map[int]bool{6: true, 7: true, 10: true, 11: true}

	rows := make([][]string, len(snapshot.Interfaces))
	for i, s := range snapshot.Interfaces {
		rows[i] = []string{
			s.Name,
			dash(s.IPv4Address),
			dash(s.IPv6Address),
			formatSpeed(s.SpeedMbps),
			formatBytes(s.RxBytes),
			strconv.FormatUint(s.RxPackets, 10),
			strconv.FormatUint(s.RxErrors, 10),
			strconv.FormatUint(s.RxDropped, 10),
			formatBytes(s.TxBytes),
			strconv.FormatUint(s.TxPackets, 10),
			strconv.FormatUint(s.TxErrors, 10),
			strconv.FormatUint(s.TxDropped, 10),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col < 3:
				return cellStyle
			case problemCols[col] && row < len(rows) && rows[row][col] != "0":
				return errorStyle
			}
			return numberStyle
		}).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(f.writer, t)
	fmt.Fprintln(f.writer)

	if len(snapshot.Warnings) == 0 {
		fmt.Fprintln(f.writer, okStyle.Render(fmt.Sprintf("%d interfaces, all statistics available", len(snapshot.Interfaces))))
		return nil
	}

	fmt.Fprintf(f.writer, "%d interfaces, %s\n", len(snapshot.Interfaces),
		warnStyle.Render(fmt.Sprintf("%d warnings", len(snapshot.Warnings))))
	for _, w := range snapshot.Warnings {
		fmt.Fprintf(f.writer, "  %s %s\n", warnStyle.Render("!"), dimStyle.Render(w.Error()))
	}
	return nil
}

// renderTSV outputs interfaces as tab-separated values with raw counters.
func (f *Formatter) renderTSV(snapshot *network.Snapshot) error {
	fmt.Fprintln(f.writer, "INTERFACE\tIPV4_ADDRESS\tIPV6_ADDRESS\tSPEED_MBPS\t"+
		"TX_BYTES\tTX_PACKETS\tTX_ERRORS\tTX_DROPPED\t"+
		"RX_BYTES\tRX_PACKETS\tRX_ERRORS\tRX_DROPPED")

	for _, s := range snapshot.Interfaces {
		fmt.Fprintf(f.writer, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			s.Name, s.IPv4Address, s.IPv6Address, s.SpeedMbps,
			s.TxBytes, s.TxPackets, s.TxErrors, s.TxDropped,
			s.RxBytes, s.RxPackets, s.RxErrors, s.RxDropped)
	}

	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatSpeed renders a link speed in Mb/s, or "-" when unknown.
func formatSpeed(mbps uint64) string {
	switch {
	case mbps == 0:
		return "-"
	case mbps >= 1000 && mbps%1000 == 0:
		return fmt.Sprintf("%d Gb/s", mbps/1000)
	default:
		return fmt.Sprintf("%d Mb/s", mbps)
	}
}

// formatBytes formats bytes into human-readable format.
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
