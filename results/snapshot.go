package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for store timestamps. It keeps
// sub-second precision so a reloaded snapshot matches its store exactly.
const TimestampLayout = time.RFC3339Nano

type snapshotEntry struct {
	ReferenceTime  *float64 `json:"reference_time"`
	CandidateATime *float64 `json:"candidate_a_time"`
	CandidateBTime *float64 `json:"candidate_b_time"`
	RatioA         *float64 `json:"ratio_a"`
	RatioB         *float64 `json:"ratio_b"`
}

func toSnapshot(e Entry) snapshotEntry {
	out := snapshotEntry{
		ReferenceTime:  e.Reference,
		CandidateATime: e.CandidateA,
		CandidateBTime: e.CandidateB,
	}
	if r, ok := e.RatioA(); ok {
		out.RatioA = &r
	}
	if r, ok := e.RatioB(); ok {
		out.RatioB = &r
	}

	return out
}

// MarshalJSON encodes the store as
// {"timestamp": ..., "benchmarks": {name: {...}}} with benchmarks in
// insertion order. Absent times and undefined ratios encode as null.
func (s *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	ts, err := json.Marshal(s.timestamp.Format(TimestampLayout))
	if err != nil {
		return nil, err
	}

	buf.WriteString(`{"timestamp":`)
	buf.Write(ts)
	buf.WriteString(`,"benchmarks":{`)

	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("encode name %q: %w", name, err)
		}

		val, err := json.Marshal(toSnapshot(s.entries[name]))
		if err != nil {
			return nil, fmt.Errorf("encode benchmark %q: %w", name, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteString("}}")

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a snapshot written by MarshalJSON. Ratios in the
// input are ignored; they are always derived from the stored times.
func (s *Store) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp  string          `json:"timestamp"`
		Benchmarks json.RawMessage `json:"benchmarks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	ts, err := time.Parse(TimestampLayout, raw.Timestamp)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", raw.Timestamp, err)
	}

	loaded := New(ts)

	if len(raw.Benchmarks) > 0 && string(raw.Benchmarks) != "null" {
		if err := decodeOrdered(raw.Benchmarks, loaded); err != nil {
			return err
		}
	}

	*s = *loaded

	return nil
}

// decodeOrdered walks the benchmarks object token by token so that key
// order survives the round trip.
func decodeOrdered(data []byte, s *Store) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode benchmarks: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode benchmarks: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode benchmarks: %w", err)
		}

		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode benchmarks: unexpected key %v", tok)
		}

		var e snapshotEntry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("decode benchmark %q: %w", name, err)
		}

		s.Put(name, Entry{
			Reference:  e.ReferenceTime,
			CandidateA: e.CandidateATime,
			CandidateB: e.CandidateBTime,
		})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode benchmarks: %w", err)
	}

	return nil
}

// LoadSnapshot reads a store from a JSON snapshot.
func LoadSnapshot(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	s := New(time.Time{})
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}

	return s, nil
}
