package debug

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/danpilch/ifstat/pkg/collectors/network"
)

// DumpRawCounters reads every counter of every interface straight from
// reader and prints the file it came from next to the parsed value.
func DumpRawCounters(w io.Writer, reader *network.CounterReader, interfaces []string) {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, title.Render("Raw Counter Dump"))
	fmt.Fprintln(w, dim.Render(strings.Repeat("═", 85)))
	fmt.Fprintf(w, "  %s %s %s %s\n",
		header.Render("INTERFACE     "),
		header.Render("COUNTER     "),
		header.Render("VALUE               "),
		header.Render("PATH      "))
	fmt.Fprintln(w, "  "+dim.Render(strings.Repeat("─", 85)))

	for _, iface := range interfaces {
		for _, counter := range network.AllCounters {
			path, _ := reader.Path(iface, counter)
			v, err := reader.Read(iface, counter)
			value := fmt.Sprintf("%d", v)
			if err != nil {
				var ws *network.Warning
				if errors.As(err, &ws) && ws.Err != nil {
					value = warn.Render(ws.Err.Error())
				} else {
					value = warn.Render(err.Error())
				}
			}
			fmt.Fprintf(w, "  %-16s %-13s %-21s %s\n", iface, counter, value, dim.Render(path))
		}
	}
}
