package results

import (
	"time"
)

// Store is an insertion-ordered set of benchmark entries captured during
// one analysis run. It is not safe for concurrent use.
type Store struct {
	timestamp time.Time
	names     []string
	entries   map[string]Entry
}

// New creates an empty Store stamped with now.
func New(now time.Time) *Store {
	return &Store{
		timestamp: now,
		entries:   make(map[string]Entry),
	}
}

// Timestamp returns the time the store was created.
func (s *Store) Timestamp() time.Time {
	return s.timestamp
}

// Add records the timings for name, replacing any earlier entry with the
// same name. candidateB may be nil. Values are stored as given.
func (s *Store) Add(name string, reference, candidateA float64, candidateB *float64) {
	e := Entry{
		Reference:  Seconds(reference),
		CandidateA: Seconds(candidateA),
	}
	if candidateB != nil {
		e.CandidateB = Seconds(*candidateB)
	}

	s.Put(name, e)
}

// Put stores e under name. An existing name keeps its position.
func (s *Store) Put(name string, e Entry) {
	if _, ok := s.entries[name]; !ok {
		s.names = append(s.names, name)
	}

	s.entries[name] = e
}

// Get returns the entry stored under name.
func (s *Store) Get(name string) (Entry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.names)
}

// Names returns entry names in insertion order.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)

	return out
}

// Named pairs an entry with its name.
type Named struct {
	Name string
	Entry
}

// Entries returns all entries in insertion order.
func (s *Store) Entries() []Named {
	out := make([]Named, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, Named{Name: name, Entry: s.entries[name]})
	}

	return out
}

// Summary aggregates candidate A ratios across the store.
type Summary struct {
	// Rated is the number of entries with a defined candidate A ratio.
	Rated int
	// WithinTarget counts rated entries at or below PassRatio.
	WithinTarget int
	Best         Ranked
	Worst        Ranked
}

// Ranked names the entry holding an extreme ratio.
type Ranked struct {
	Name  string
	Ratio float64
}

// Summary computes the candidate A summary. Best and Worst are zero when
// Rated is zero. Ties go to the earliest inserted entry.
func (s *Store) Summary() Summary {
	var sum Summary

	for _, name := range s.names {
		r, ok := s.entries[name].RatioA()
		if !ok {
			continue
		}

		if r <= PassRatio {
			sum.WithinTarget++
		}

		if sum.Rated == 0 || r < sum.Best.Ratio {
			sum.Best = Ranked{Name: name, Ratio: r}
		}
		if sum.Rated == 0 || r > sum.Worst.Ratio {
			sum.Worst = Ranked{Name: name, Ratio: r}
		}

		sum.Rated++
	}

	return sum
}
