package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/weiihann/pdbench/results"
)

const (
	// DefaultDir is the output directory used when none is configured.
	DefaultDir = "results"
	// LatestPointer is the file naming the most recently written report.
	LatestPointer = "latest_report.md"
	// FileStampLayout formats the persist time in file names.
	FileStampLayout = "20060102_150405"
)

// Persist steps reported by StepError.
const (
	StepCreateDir     = "create directory"
	StepWriteResults  = "write results"
	StepWriteReport   = "write report"
	StepUpdatePointer = "update pointer"
)

// StepError identifies which persist step failed.
type StepError struct {
	Step string
	Path string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Step, e.Path, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Paths lists the files written by Persist.
type Paths struct {
	JSON    string
	Report  string
	Pointer string
}

// Writer persists a store and its report to a directory.
type Writer struct {
	FS      afero.Fs
	Dir     string
	Clock   func() time.Time
	Options Options
	Logger  *slog.Logger
	// Out receives the confirmation lines; nil discards them.
	Out io.Writer
}

// NewWriter returns a Writer on the OS filesystem using the wall clock.
func NewWriter(dir string, opts Options, logger *slog.Logger, out io.Writer) *Writer {
	return &Writer{
		FS:      afero.NewOsFs(),
		Dir:     dir,
		Clock:   time.Now,
		Options: opts,
		Logger:  logger,
		Out:     out,
	}
}

// Persist writes the JSON snapshot and markdown report of s under Dir,
// then points LatestPointer at the new report. Files written before a
// failing step are left in place.
func (w *Writer) Persist(s *results.Store) (Paths, error) {
	fs := w.fs()
	dir := w.Dir
	if dir == "" {
		dir = DefaultDir
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, &StepError{Step: StepCreateDir, Path: dir, Err: err}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return Paths{}, &StepError{Step: StepWriteResults, Path: dir, Err: err}
	}

	var buf bytes.Buffer
	if err := Generate(&buf, s, w.Options); err != nil {
		return Paths{}, &StepError{Step: StepWriteReport, Path: dir, Err: err}
	}

	paths, err := freePaths(fs, dir, w.now().Format(FileStampLayout))
	if err != nil {
		return Paths{}, &StepError{Step: StepWriteResults, Path: dir, Err: err}
	}

	if err := writeNew(fs, paths.JSON, append(data, '\n')); err != nil {
		return Paths{}, &StepError{Step: StepWriteResults, Path: paths.JSON, Err: err}
	}

	if err := writeNew(fs, paths.Report, buf.Bytes()); err != nil {
		return Paths{}, &StepError{Step: StepWriteReport, Path: paths.Report, Err: err}
	}

	w.confirm("Results saved to %s\n", paths.JSON)
	w.confirm("Report saved to %s\n", paths.Report)

	if err := updatePointer(fs, paths.Pointer, filepath.Base(paths.Report)); err != nil {
		return paths, &StepError{Step: StepUpdatePointer, Path: paths.Pointer, Err: err}
	}

	w.logger().Info("report persisted",
		slog.String("json", paths.JSON),
		slog.String("report", paths.Report),
		slog.Int("benchmarks", s.Len()),
	)

	return paths, nil
}

// maxStampSuffix bounds the suffixes tried when a stamp is already taken.
const maxStampSuffix = 1000

// freePaths returns the first file pair for stamp that does not exist yet,
// appending _1, _2, ... when an earlier persist used the same second.
func freePaths(fs afero.Fs, dir, stamp string) (Paths, error) {
	for n := 0; n < maxStampSuffix; n++ {
		suffix := stamp
		if n > 0 {
			suffix = fmt.Sprintf("%s_%d", stamp, n)
		}

		p := Paths{
			JSON:    filepath.Join(dir, "benchmark_results_"+suffix+".json"),
			Report:  filepath.Join(dir, "benchmark_report_"+suffix+".md"),
			Pointer: filepath.Join(dir, LatestPointer),
		}

		jsonTaken, err := lexists(fs, p.JSON)
		if err != nil {
			return Paths{}, err
		}
		reportTaken, err := lexists(fs, p.Report)
		if err != nil {
			return Paths{}, err
		}

		if !jsonTaken && !reportTaken {
			return p, nil
		}
	}

	return Paths{}, fmt.Errorf("no free file name for stamp %s", stamp)
}

// lexists reports whether path exists without following a final symlink.
func lexists(fs afero.Fs, path string) (bool, error) {
	var err error
	if ls, ok := fs.(afero.Lstater); ok {
		_, _, err = ls.LstatIfPossible(path)
	} else {
		_, err = fs.Stat(path)
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// writeNew creates path and fails with os.ErrExist if it is already there.
func writeNew(fs afero.Fs, path string, data []byte) error {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// updatePointer replaces the pointer file with a one-line markdown link
// to target. Any existing pointer, including a dangling symlink, is removed
// first so the write never lands on a link target.
func updatePointer(fs afero.Fs, path, target string) error {
	if err := fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove old pointer: %w", err)
	}

	line := fmt.Sprintf("[%s](%s)\n", target, target)

	return writeNew(fs, path, []byte(line))
}

var pointerLink = regexp.MustCompile(`^\[[^\]]*\]\(([^)]+)\)$`)

// Latest returns the path of the report LatestPointer names in dir.
func Latest(fs afero.Fs, dir string) (string, error) {
	path := filepath.Join(dir, LatestPointer)

	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pointer: %w", err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read pointer: %w", err)
	}

	m := pointerLink.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", fmt.Errorf("pointer %s: malformed link %q", path, line)
	}

	return filepath.Join(dir, m[1]), nil
}

func (w *Writer) fs() afero.Fs {
	if w.FS == nil {
		return afero.NewOsFs()
	}

	return w.FS
}

func (w *Writer) now() time.Time {
	if w.Clock == nil {
		return time.Now()
	}

	return w.Clock()
}

func (w *Writer) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return w.Logger
}

var savedColor = color.New(color.FgGreen)

func (w *Writer) confirm(format string, args ...any) {
	if w.Out == nil {
		return
	}

	_, _ = savedColor.Fprintf(w.Out, format, args...)
}
