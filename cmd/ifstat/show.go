package main

import (
	"slices"

	"github.com/danpilch/ifstat/pkg/collectors/network"
	"github.com/danpilch/ifstat/pkg/output"
	"github.com/spf13/cobra"
)

type showOptions struct {
	interfaces []string
	strict     bool
}

func addShowFlags(cmd *cobra.Command, opts *showOptions) {
	f := cmd.Flags()
	f.String("format", "table", "output format: table, json or tsv")
	f.StringSliceVarP(&opts.interfaces, "interface", "i", nil, "only show these interfaces (repeatable)")
	f.BoolVar(&opts.strict, "strict", false, "exit 1 if any statistic could not be read")
}

func newShowCmd(a *app) *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print one snapshot of every interface with an IPv4 address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(opts)
		},
	}
	addShowFlags(cmd, opts)
	return cmd
}

func (a *app) runShow(opts *showOptions) error {
	format, err := output.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	collector, err := a.newCollector()
	if err != nil {
		return err
	}
	snapshot, err := collector.Collect()
	if err != nil {
		return &exitError{code: exitFatal, err: err, reported: true}
	}
	snapshot = filterSnapshot(snapshot, opts.interfaces)

	if err := output.NewFormatter(format, a.stdout).Render(snapshot); err != nil {
		return &exitError{code: exitFatal, err: err}
	}

	if opts.strict && len(snapshot.Warnings) > 0 {
		return &exitError{code: exitWarnings, err: snapshot.Err(), reported: true}
	}
	return nil
}

// filterSnapshot keeps only the named interfaces and their warnings. An
// empty names list keeps everything.
func filterSnapshot(snapshot *network.Snapshot, names []string) *network.Snapshot {
	if len(names) == 0 {
		return snapshot
	}
	filtered := &network.Snapshot{CollectedAt: snapshot.CollectedAt}
	for _, s := range snapshot.Interfaces {
		if slices.Contains(names, s.Name) {
			filtered.Interfaces = append(filtered.Interfaces, s)
		}
	}
	for _, w := range snapshot.Warnings {
		if slices.Contains(names, w.Interface) {
			filtered.Warnings = append(filtered.Warnings, w)
		}
	}
	return filtered
}
