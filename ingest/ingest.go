// Package ingest loads benchmark timings produced by an external harness.
//
// The input is a YAML (or JSON) document of the form
//
//	benchmarks:
//	  - name: fibonacci
//	    reference: 1.234
//	    candidate_a: 1.456
//	    candidate_b: 1.289
//
// Any timing may be omitted or null. Entries are added in document order.
package ingest

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/weiihann/pdbench/results"
)

// Record is one benchmark in an input document.
type Record struct {
	Name       string   `yaml:"name"`
	Reference  *float64 `yaml:"reference"`
	CandidateA *float64 `yaml:"candidate_a"`
	CandidateB *float64 `yaml:"candidate_b"`
}

type document struct {
	Benchmarks []Record `yaml:"benchmarks"`
}

// Load decodes records from r into s and returns how many were read.
func Load(r io.Reader, s *results.Store) (int, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}

		return 0, fmt.Errorf("decode timings: %w", err)
	}

	for i, rec := range doc.Benchmarks {
		if rec.Name == "" {
			return 0, fmt.Errorf("benchmark %d: missing name", i)
		}
	}

	for _, rec := range doc.Benchmarks {
		s.Put(rec.Name, results.Entry{
			Reference:  rec.Reference,
			CandidateA: rec.CandidateA,
			CandidateB: rec.CandidateB,
		})
	}

	return len(doc.Benchmarks), nil
}

// LoadFile reads the timings file at path into s.
func LoadFile(fs afero.Fs, path string, s *results.Store) (int, error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open timings %s: %w", path, err)
	}
	defer f.Close()

	n, err := Load(f, s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	return n, nil
}
