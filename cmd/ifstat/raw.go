package main

import (
	"github.com/danpilch/ifstat/pkg/collectors/network"
	"github.com/danpilch/ifstat/pkg/debug"
	"github.com/spf13/cobra"
)

func newRawCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "raw INTERFACE...",
		Short: "Dump every counter file of the given interfaces without enumerating",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug.DumpRawCounters(a.stdout, network.NewCounterReader(a.cfg.Sysfs.Root), args)
			return nil
		},
	}
}
