package main

import (
	"github.com/danpilch/ifstat/pkg/crosscheck"
	"github.com/spf13/cobra"
)

func newCrosscheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crosscheck",
		Short: "Compare sysfs counters with /proc/net/dev and netlink, and sanity check them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCrosscheck(crosscheck.DefaultSources())
		},
	}
	cmd.Flags().String("format", "table", "output format: table or json")
	return cmd
}

func (a *app) runCrosscheck(sources []crosscheck.CounterSource) error {
	collector, err := a.newCollector()
	if err != nil {
		return err
	}
	snapshot, err := collector.Collect()
	if err != nil {
		return &exitError{code: exitFatal, err: err, reported: true}
	}

	validations, sanity := crosscheck.RunCrossChecks(snapshot, sources, a.logger)
	if a.cfg.Output.Format == "json" {
		return crosscheck.ReportJSON(a.stdout, validations, sanity)
	}
	crosscheck.Report(a.stdout, validations, sanity)
	return nil
}
