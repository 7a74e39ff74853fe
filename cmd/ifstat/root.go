package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/danpilch/ifstat/pkg/collectors/network"
	"github.com/danpilch/ifstat/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	exitOK       = 0
	exitWarnings = 1
	exitUsage    = 2
	exitFatal    = 3
)

// exitError carries a process exit code. reported is set when the cause has
// already been logged.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *logrus.Logger
	stdout  io.Writer
	stderr  io.Writer

	// enumerator overrides cfg.Enumerator when set.
	enumerator network.Enumerator
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return exitCode(a, root.Execute())
}

func exitCode(a *app, err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.reported {
			a.log().WithError(ee.err).Error("ifstat failed")
		}
		return ee.code
	}
	a.log().WithError(err).Error("ifstat failed")
	return exitUsage
}

func newRootCmd(a *app) *cobra.Command {
	opts := &showOptions{}
	root := &cobra.Command{
		Use:           "ifstat",
		Short:         "Network interface statistics",
		Long:          "ifstat enumerates network interfaces and reports their addresses and sysfs traffic counters.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("sysfs-root", network.DefaultSysfsRoot, "directory holding per-interface statistics")
	pf.String("enumerator", "auto", "interface enumerator: auto, netlink or net")
	addShowFlags(root, opts)

	root.AddCommand(
		newShowCmd(a),
		newServeCmd(a),
		newCrosscheckCmd(a),
		newBenchmarkCmd(a),
		newRawCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	logger, err := newLogger(cfg.Logging, a.stderr)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// log returns the configured logger, or a default one if setup never ran.
func (a *app) log() *logrus.Logger {
	if a.logger == nil {
		l := logrus.New()
		l.SetOutput(a.stderr)
		return l
	}
	return a.logger
}

func newLogger(cfg config.LoggingConfig, w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339,
		})
	}
	return logger, nil
}

func (a *app) newCollector() (*network.Collector, error) {
	enumerator := a.enumerator
	if enumerator == nil {
		var err error
		enumerator, err = network.EnumeratorByName(a.cfg.Enumerator)
		if err != nil {
			return nil, &exitError{code: exitUsage, err: err}
		}
	}
	return network.New(
		network.WithEnumerator(enumerator),
		network.WithSysfsRoot(a.cfg.Sysfs.Root),
		network.WithLogger(a.logger),
	), nil
}
