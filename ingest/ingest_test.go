package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/pdbench/results"
)

var fixedTime = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func TestLoadYAML(t *testing.T) {
	input := `
benchmarks:
  - name: fibonacci
    reference: 1.234
    candidate_a: 1.456
    candidate_b: 1.289
  - name: string_concat
    reference: 0.123
    candidate_a: 0.234
  - name: missing
    candidate_b: null
`
	s := results.New(fixedTime)
	n, err := Load(strings.NewReader(input), s)
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"fibonacci", "string_concat", "missing"}, s.Names())

	fib, ok := s.Get("fibonacci")
	require.True(t, ok)
	require.NotNil(t, fib.CandidateB)
	assert.Equal(t, 1.289, *fib.CandidateB)

	concat, _ := s.Get("string_concat")
	assert.Nil(t, concat.CandidateB)

	missing, _ := s.Get("missing")
	assert.Nil(t, missing.Reference)
	assert.Nil(t, missing.CandidateA)
	assert.Nil(t, missing.CandidateB)
}

func TestLoadJSON(t *testing.T) {
	input := `{"benchmarks": [{"name": "sort", "reference": 2, "candidate_a": 4}]}`

	s := results.New(fixedTime)
	n, err := Load(strings.NewReader(input), s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	e, _ := s.Get("sort")
	r, ok := e.RatioA()
	require.True(t, ok)
	assert.InDelta(t, 2.0, r, 1e-12)
}

func TestLoadDuplicateNamesOverwrite(t *testing.T) {
	input := `
benchmarks:
  - {name: fib, reference: 1, candidate_a: 3}
  - {name: fib, reference: 1, candidate_a: 1.05}
`
	s := results.New(fixedTime)
	_, err := Load(strings.NewReader(input), s)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	e, _ := s.Get("fib")
	assert.Equal(t, 1.05, *e.CandidateA)
}

func TestLoadEmpty(t *testing.T) {
	s := results.New(fixedTime)
	n, err := Load(strings.NewReader(""), s)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a document", "benchmarks: [unterminated"},
		{"non numeric time", "benchmarks:\n  - {name: x, reference: fast}\n"},
		{"missing name", "benchmarks:\n  - {reference: 1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := results.New(fixedTime)
			_, err := Load(strings.NewReader(tt.input), s)
			assert.Error(t, err)
			assert.Zero(t, s.Len())
		})
	}
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "timings.yaml",
		[]byte("benchmarks:\n  - {name: fib, reference: 1, candidate_a: 1.1}\n"), 0o644))

	s := results.New(fixedTime)
	n, err := LoadFile(fs, "timings.yaml", s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = LoadFile(fs, "absent.yaml", s)
	assert.Error(t, err)
}
