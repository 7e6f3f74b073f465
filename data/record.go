package data

import (
	"fmt"
	"maps"

	"github.com/goccy/go-json"
)

// Well-known record fields managed by the adapter. Every other field is
// caller-supplied and passed through unmodified.
const (
	// FieldFileKey holds the derived filesystem name of the record's shard
	// file. Assigned on write, authoritative for locating the file afterwards.
	FieldFileKey = "fskey"

	// FieldShard is never persisted. Callers may place payload bytes under it;
	// the adapter strips it before every metadata write.
	FieldShard = "shard"
)

// Record is a single metadata document keyed by a logical key. Contract
// terms, audit data and other caller fields live alongside the managed
// fields as arbitrary JSON-compatible values.
type Record map[string]any

// FileKey returns the derived filesystem name stored on the record, or ""
// when none has been assigned yet.
func (r Record) FileKey() string {
	if v, ok := r[FieldFileKey].(string); ok {
		return v
	}
	return ""
}

// SetFileKey assigns the derived filesystem name.
func (r Record) SetFileKey(fskey string) {
	r[FieldFileKey] = fskey
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	clone := make(Record, len(r))
	maps.Copy(clone, r)
	return clone
}

// StripShard returns a copy of the record with any payload-bearing shard
// field removed. The original record is left untouched.
func (r Record) StripShard() Record {
	clone := r.Clone()
	delete(clone, FieldShard)
	return clone
}

// EncodeRecord serializes a record to its flat JSON form for the metadata
// tier.
func EncodeRecord(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRecord parses a stored record. A value that fails to parse is
// reported as ErrMalformedRecord with the decode cause attached, never
// silently swallowed.
func DecodeRecord(raw []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return r, nil
}
