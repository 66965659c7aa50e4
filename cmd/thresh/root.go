package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-thresh/internal/config"
	"github.com/jamesainslie/go-thresh/internal/logging"
)

// app carries state shared by subcommands once the root command has
// loaded configuration.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{
		cfg:    config.Default(),
		logger: slog.New(slog.DiscardHandler),
	}

	root := &cobra.Command{
		Use:   "thresh",
		Short: "Evaluate binary classifiers and pick decision thresholds",
		Long: "thresh computes confusion-matrix metrics for labelled classifier outputs,\n" +
			"sweeps decision thresholds and selects one under F1 or recall-floor policies.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "Path to YAML config file (overrides "+config.EnvPath+" env var)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "Log format: auto, text, json")

	root.AddCommand(
		newSweepCmd(a),
		newEvaluateCmd(a),
		newSpreadCmd(a),
		newSanityCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger. Explicit flags win over
// file values.
func (a *app) setup(cmd *cobra.Command) error {
	flagPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.ResolvePath(flagPath))
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format, _ = cmd.Flags().GetString("log-format")
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), logging.Config{Level: level, Format: format})
	a.logger.Debug("configuration loaded",
		"command", cmd.Name(),
		"config", config.ResolvePath(flagPath))
	return nil
}

// outputFormat applies a --format override and returns the format to
// render with.
func (a *app) outputFormat(cmd *cobra.Command) (string, error) {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		a.cfg.Output.Format = f.Value.String()
	}
	switch a.cfg.Output.Format {
	case "table", "json":
		return a.cfg.Output.Format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table or json)", a.cfg.Output.Format)
	}
}
