package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/weiihann/pdbench/ingest"
	"github.com/weiihann/pdbench/report"
	"github.com/weiihann/pdbench/results"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		input       string
		printReport bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build a report from a timings file",
		Long: `Read benchmark timings from a YAML or JSON file, then write the JSON
snapshot and markdown report to the output directory and update the latest
report pointer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.newStore()

			n, err := ingest.LoadFile(a.fs, input, s)
			if err != nil {
				return fmt.Errorf("load timings: %w", err)
			}

			a.logger.InfoContext(cmd.Context(), "timings loaded",
				slog.String("path", input),
				slog.Int("records", n),
				slog.Int("benchmarks", s.Len()),
			)

			return a.emit(cmd.OutOrStdout(), s, printReport)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "",
		"Timings file (YAML or JSON)")
	cmd.Flags().BoolVar(&printReport, "print", false,
		"Also print the report to stdout")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// exampleTimings is the sample data set shipped with the tool.
var exampleTimings = []struct {
	name      string
	reference float64
	backendC  float64
	backendLL *float64
}{
	{"fibonacci", 1.234, 1.456, results.Seconds(1.289)},
	{"matrix_multiply", 2.345, 2.678, results.Seconds(2.456)},
	{"string_concat", 0.123, 0.234, nil},
	{"bubble_sort", 3.456, 4.567, results.Seconds(3.789)},
}

func newExampleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print and persist a report for the built-in sample timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.newStore()
			for _, t := range exampleTimings {
				s.Add(t.name, t.reference, t.backendC, t.backendLL)
			}

			return a.emit(cmd.OutOrStdout(), s, true)
		},
	}
}

// emit optionally prints the report, then persists it.
func (a *app) emit(out io.Writer, s *results.Store, printReport bool) error {
	if printReport {
		if err := report.Generate(out, s, a.cfg.ReportOptions()); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	if _, err := a.writer(out).Persist(s); err != nil {
		return fmt.Errorf("persist results: %w", err)
	}

	return nil
}

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render SNAPSHOT",
		Short: "Render the markdown report for a saved JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fs.Open(args[0])
			if err != nil {
				return fmt.Errorf("open snapshot: %w", err)
			}
			defer f.Close()

			s, err := results.LoadSnapshot(f)
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", args[0], err)
			}

			return report.Generate(cmd.OutOrStdout(), s, a.cfg.ReportOptions())
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the latest report in the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := report.Latest(a.fs, a.cfg.OutputDir)
			if err != nil {
				return fmt.Errorf("resolve latest report: %w", err)
			}

			data, err := afero.ReadFile(a.fs, path)
			if err != nil {
				return fmt.Errorf("read report: %w", err)
			}

			a.logger.Debug("showing report", slog.String("path", path))

			out := cmd.OutOrStdout()
			if raw {
				_, err = out.Write(data)
				return err
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(120),
			)
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}

			rendered, err := renderer.Render(string(data))
			if err != nil {
				// Fall back to plain markdown.
				_, err = out.Write(data)
				return err
			}

			_, err = fmt.Fprint(out, rendered)

			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false,
		"Print the markdown without terminal styling")

	return cmd
}
