// Package report formats benchmark results into markdown comparison reports.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/weiihann/pdbench/results"
)

// Markers appended to the candidate A ratio cell.
const (
	MarkerPass = "✅"
	MarkerWarn = "⚠️"
	MarkerFail = "❌"
)

// Labels names the three timing columns.
type Labels struct {
	Reference  string `mapstructure:"reference"`
	CandidateA string `mapstructure:"candidate_a"`
	CandidateB string `mapstructure:"candidate_b"`
}

// Options controls report presentation.
type Options struct {
	Title  string
	Labels Labels
}

// DefaultOptions returns the Palladium-versus-C presentation.
func DefaultOptions() Options {
	return Options{
		Title: "Palladium Benchmark Results",
		Labels: Labels{
			Reference:  "C",
			CandidateA: "Palladium (C)",
			CandidateB: "Palladium (LLVM)",
		},
	}
}

// withDefaults fills empty fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()

	if o.Title == "" {
		o.Title = def.Title
	}
	if o.Labels.Reference == "" {
		o.Labels.Reference = def.Labels.Reference
	}
	if o.Labels.CandidateA == "" {
		o.Labels.CandidateA = def.Labels.CandidateA
	}
	if o.Labels.CandidateB == "" {
		o.Labels.CandidateB = def.Labels.CandidateB
	}

	return o
}

// Render returns the markdown report for s.
func Render(s *results.Store, opts Options) string {
	var b strings.Builder

	// strings.Builder never fails.
	_ = Generate(&b, s, opts)

	return b.String()
}

// Generate writes the markdown report for s to w. The output depends only
// on the store contents, its timestamp and opts.
func Generate(w io.Writer, s *results.Store, opts Options) error {
	opts = opts.withDefaults()
	l := opts.Labels
	ew := &errWriter{w: w}

	// Header.
	ew.printf("# %s\n", opts.Title)
	ew.printf("*Generated: %s*\n\n", s.Timestamp().Format(results.TimestampLayout))

	// Table.
	ew.printf("## Summary\n\n")
	ew.printf("| Benchmark | %s Time | %s | %s | %s→%s Ratio | %s→%s Ratio |\n",
		l.Reference, l.CandidateA, l.CandidateB,
		l.Reference, l.CandidateA,
		l.Reference, l.CandidateB,
	)
	ew.printf("|-----------|--------|---------------|-------------------" +
		"|---------------|-------------------|\n")

	for _, e := range s.Entries() {
		ratioA := formatRatio(e.RatioA())
		if m := Marker(e.Verdict()); m != "" {
			ratioA += " " + m
		}

		ew.printf("| %s | %s | %s | %s | %s | %s |\n",
			e.Name,
			formatSeconds(e.Reference),
			formatSeconds(e.CandidateA),
			formatSeconds(e.CandidateB),
			ratioA,
			formatRatio(e.RatioB()),
		)
	}

	// Analysis.
	ew.printf("\n## Analysis\n\n")
	ew.printf("### Performance Goals\n")
	ew.printf("- %s Within 10%% of %s (ratio ≤ %.1f)\n", MarkerPass, l.Reference, results.PassRatio)
	ew.printf("- %s Within 50%% of %s (ratio ≤ %.1f)\n", MarkerWarn, l.Reference, results.WarnRatio)
	ew.printf("- %s More than 50%% slower than %s (ratio > %.1f)\n\n", MarkerFail, l.Reference, results.WarnRatio)

	sum := s.Summary()

	ew.printf("### Observations\n")
	ew.printf("- %d/%d benchmarks within 10%% of %s performance\n",
		sum.WithinTarget, sum.Rated, l.Reference)

	if sum.Rated > 0 {
		ew.printf("- Best performer: %s (%.2fx of %s)\n", sum.Best.Name, sum.Best.Ratio, l.Reference)
		ew.printf("- Worst performer: %s (%.2fx of %s)\n", sum.Worst.Name, sum.Worst.Ratio, l.Reference)
	}

	ew.printf("\n%s", nextSteps)

	return ew.err
}

const nextSteps = `### Next Steps
1. Profile worst-performing benchmarks
2. Optimize hot paths in code generation
3. Implement LLVM optimization passes
4. Add more realistic benchmarks
`

// Marker returns the annotation for v, or "" when the ratio is undefined.
func Marker(v results.Verdict) string {
	switch v {
	case results.VerdictPass:
		return MarkerPass
	case results.VerdictWarn:
		return MarkerWarn
	case results.VerdictFail:
		return MarkerFail
	default:
		return ""
	}
}

func formatSeconds(v *float64) string {
	if v == nil {
		return "N/A"
	}

	return fmt.Sprintf("%.3fs", *v)
}

func formatRatio(r float64, ok bool) string {
	if !ok {
		return "N/A"
	}

	return fmt.Sprintf("%.2fx", r)
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
