package main

import (
	"github.com/danpilch/ifstat/pkg/benchmark"
	"github.com/spf13/cobra"
)

func newBenchmarkCmd(a *app) *cobra.Command {
	opts := benchmark.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Measure the latency and allocations of a full interface poll",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collector, err := a.newCollector()
			if err != nil {
				return err
			}
			benchmark.RenderResults(a.stdout, benchmark.Run(collector, opts))
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Iterations, "iterations", opts.Iterations, "measured polls")
	cmd.Flags().IntVar(&opts.Warmup, "warmup", opts.Warmup, "discarded polls before measuring")
	return cmd
}
