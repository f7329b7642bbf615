// SPDX-License-Identifier: MIT
// Package cli implements the tasreso command line. Every external
// collaborator is injected through Dependencies so that the commands can be
// exercised in tests without files or a real logger.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/tasreso/config"
	"github.com/katalvlaran/tasreso/logging"
	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/tas"
)

// Dependencies holds all injectable dependencies of the commands.
type Dependencies struct {
	// LoggerFactory creates a logger for the requested level.
	LoggerFactory func(level string) (logging.Logger, error)

	// ConfigLoader reads an instrument file.
	ConfigLoader func(path string) (*config.Instrument, error)

	Stdout io.Writer
	Stderr io.Writer

	// NoColor disables coloured status markers.
	NoColor bool
}

// DefaultDependencies returns the production wiring: a zap logger and the
// YAML loader, writing to the process streams.
func DefaultDependencies() *Dependencies {
	return &Dependencies{
		LoggerFactory: func(level string) (logging.Logger, error) {
			return logging.NewZap(level)
		},
		ConfigLoader: config.Load,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
}

// options are the persistent flags shared by all commands.
type options struct {
	configPath string
	logLevel   string
	algo       string
	positions  int
	noColor    bool
}

// env is what a command needs once flags are parsed.
type env struct {
	deps    *Dependencies
	log     logging.Logger
	inst    *config.Instrument
	session *tas.Session
	ok      *color.Color
	fail    *color.Color
	head    *color.Color
}

// NewRootCmd creates the root command with explicit dependencies.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "tasreso",
		Short: "Triple-axis and time-of-flight resolution calculations",
		Long: `tasreso computes the four-dimensional Gaussian resolution function of a
neutron spectrometer at a requested (h k l E), using the Cooper-Nathans,
Popovici, Eckold-Sobolev, Violini or simple ki/kf model.

The instrument and the sample orientation are read from a YAML file.

Examples:
  # Resolution matrix at (1 0 0), E = 2 meV
  tasreso calc -c instrument.yaml 1 0 0 2

  # The scan of the instrument file with another algorithm
  tasreso scan -c instrument.yaml --algo eck

  # 10000 Monte-Carlo neutrons in rlu
  tasreso mc -c instrument.yaml -n 10000 1 0 0 2 > neutrons.dat`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "instrument file (YAML)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.algo, "algo", "", "override the algorithm: cn, pop, eck, viol, simple")
	root.PersistentFlags().IntVar(&opts.positions, "positions", 0, "override the number of sample positions")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		newCalcCmd(deps, opts),
		newScanCmd(deps, opts),
		newMCCmd(deps, opts),
		newEllipseCmd(deps, opts),
	)
	if deps != nil {
		if deps.Stdout != nil {
			root.SetOut(deps.Stdout)
		}
		if deps.Stderr != nil {
			root.SetErr(deps.Stderr)
		}
	}

	return root
}

// setup loads the instrument file and opens a session.
func setup(ctx context.Context, deps *Dependencies, opts *options, sessOpts ...tas.Option) (*env, error) {
	if deps == nil {
		return nil, errors.New("dependencies not configured")
	}
	if opts.configPath == "" {
		return nil, errors.New("an instrument file is required (--config)")
	}
	log, err := deps.LoggerFactory(opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	inst, err := deps.ConfigLoader(opts.configPath)
	if err != nil {
		log.Error(ctx, "failed to load instrument", err, map[string]any{"path": opts.configPath})
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	cfg := inst.Config
	if opts.algo != "" {
		if cfg.Algo, err = reso.ParseAlgo(opts.algo); err != nil {
			return nil, fmt.Errorf("--algo: %w", err)
		}
	}
	if opts.positions > 0 {
		cfg.SamplePositions = opts.positions
	}

	session, err := tas.NewSession(cfg, append([]tas.Option{tas.WithLogger(log)}, sessOpts...)...)
	if err != nil {
		log.Error(ctx, "failed to create session", err, nil)
		return nil, err
	}
	log.Info(ctx, "session ready", map[string]any{
		"config": opts.configPath,
		"algo":   cfg.Algo.String(),
	})

	e := &env{
		deps:    deps,
		log:     log,
		inst:    inst,
		session: session,
		ok:      color.New(color.FgGreen, color.Bold),
		fail:    color.New(color.FgRed, color.Bold),
		head:    color.New(color.FgCyan),
	}
	if deps.NoColor || opts.noColor {
		e.ok.DisableColor()
		e.fail.DisableColor()
		e.head.DisableColor()
	}

	return e, nil
}

// parseHKLE reads four positional floats.
func parseHKLE(args []string) (tas.Point, error) {
	var v [4]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return tas.Point{}, fmt.Errorf("argument %d (%q) is not a number", i+1, a)
		}
		v[i] = f
	}

	return tas.Point{H: v[0], K: v[1], L: v[2], E: v[3]}, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
