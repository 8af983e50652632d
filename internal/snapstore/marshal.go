package snapstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edopica/expect-test/internal/canon"
)

// recordJSON is the on-disk shape of one snapshot record. The value is the
// canonical serialization from canon, embedded verbatim. The encoder runs
// with HTML escaping off so the stored bytes stay identical to the
// canonical form.
type recordJSON struct {
	Value      json.RawMessage `json:"value"`
	Timestamp  string          `json:"timestamp"`
	FilePath   string          `json:"file_path"`
	LineNumber int             `json:"line_number"`
	Hash       string          `json:"hash"`
}

// marshalRecords serializes the full working copy, key-sorted, indented for
// human-diffable version control. encoding/json emits map keys in sorted
// order, which is exactly the stability the store format requires.
func marshalRecords(records map[string]Record) ([]byte, error) {
	out := make(map[string]recordJSON, len(records))
	for key, rec := range records {
		out[key] = recordJSON{
			Value:      canon.MarshalCanonical(rec.Value),
			Timestamp:  rec.Timestamp.UTC().Format(time.RFC3339Nano),
			FilePath:   rec.FilePath,
			LineNumber: rec.LineNumber,
			Hash:       rec.Hash,
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("marshal snapshot store: %w", err)
	}
	return buf.Bytes(), nil
}

// unmarshalRecords parses a persisted store file back into records.
// Any parse failure is reported to the caller; the file itself is never
// modified on error.
func unmarshalRecords(data []byte) (map[string]Record, error) {
	var raw map[string]recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	records := make(map[string]Record, len(raw))
	for key, rj := range raw {
		value, err := canon.Parse(rj.Value)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", key, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, rj.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("record %q: timestamp: %w", key, err)
		}
		records[key] = Record{
			Key:        key,
			Value:      value,
			Hash:       rj.Hash,
			Timestamp:  ts,
			FilePath:   rj.FilePath,
			LineNumber: rj.LineNumber,
		}
	}
	return records, nil
}
