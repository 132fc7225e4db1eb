// Package main provides the CLI entry point for pdbench, which turns
// Palladium benchmark timings into comparison reports.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weiihann/pdbench/internal/config"
	"github.com/weiihann/pdbench/internal/logging"
	"github.com/weiihann/pdbench/report"
	"github.com/weiihann/pdbench/results"
)

func main() {
	root := newRootCmd(newApp())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries state shared by all subcommands.
type app struct {
	v      *viper.Viper
	fs     afero.Fs
	now    func() time.Time
	cfg    config.Config
	logger *slog.Logger
}

func newApp() *app {
	return &app{
		v:   viper.New(),
		fs:  afero.NewOsFs(),
		now: time.Now,
	}
}

func newRootCmd(a *app) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "pdbench",
		Short: "Palladium benchmark report generator",
		Long: `Pdbench compares Palladium compiler backends against a reference
implementation. It takes timing triples, computes slowdown ratios, and writes
a markdown report and JSON snapshot with pass/warn/fail annotations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v, cfgFile)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

			if used := a.v.ConfigFileUsed(); used != "" {
				a.logger.Debug("config loaded", slog.String("path", used))
			}

			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "",
		"Config file (default: ./pdbench.{yaml,json,toml} if present)")
	flags.StringP("output-dir", "o", report.DefaultDir,
		"Directory for results, reports and the latest pointer")
	flags.String("log-level", "info",
		"Log level: debug, info, warn, error")

	_ = a.v.BindPFlag(config.KeyOutputDir, flags.Lookup("output-dir"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		newAnalyzeCmd(a),
		newExampleCmd(a),
		newRenderCmd(a),
		newShowCmd(a),
	)

	return root
}

// writer returns a report writer for the configured output directory.
func (a *app) writer(out io.Writer) *report.Writer {
	return &report.Writer{
		FS:      a.fs,
		Dir:     a.cfg.OutputDir,
		Clock:   a.now,
		Options: a.cfg.ReportOptions(),
		Logger:  a.logger,
		Out:     out,
	}
}

// newStore starts an empty result set stamped with the current time.
func (a *app) newStore() *results.Store {
	return results.New(a.now())
}
