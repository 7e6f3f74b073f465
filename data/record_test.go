package data

import (
	"errors"
	"testing"
)

func TestRecord_StripShard(t *testing.T) {
	rec := Record{"contract": "c-1", FieldShard: []byte("payload")}

	stored := rec.StripShard()

	if _, exists := stored[FieldShard]; exists {
		t.Error("Shard field survived StripShard")
	}
	if stored["contract"] != "c-1" {
		t.Errorf("Caller field lost: %v", stored["contract"])
	}

	// The original record is untouched
	if _, exists := rec[FieldShard]; !exists {
		t.Error("StripShard mutated the source record")
	}
}

func TestRecord_FileKey(t *testing.T) {
	rec := Record{}

	if rec.FileKey() != "" {
		t.Errorf("Expected empty fskey, got %q", rec.FileKey())
	}

	rec.SetFileKey("abcd")
	if rec.FileKey() != "abcd" {
		t.Errorf("Expected fskey abcd, got %q", rec.FileKey())
	}

	// Non-string values under the field read as unset
	rec[FieldFileKey] = 42
	if rec.FileKey() != "" {
		t.Errorf("Expected empty fskey for non-string value, got %q", rec.FileKey())
	}
}

func TestDecodeRecord_Roundtrip(t *testing.T) {
	rec := Record{"contract": "c-1", "audit": map[string]any{"by": "node-3"}}

	raw, err := EncodeRecord(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded["contract"] != "c-1" {
		t.Errorf("Expected contract c-1, got %v", decoded["contract"])
	}
}

func TestDecodeRecord_Malformed(t *testing.T) {
	_, err := DecodeRecord([]byte("{not json"))
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("Expected ErrMalformedRecord, got %v", err)
	}

	// The decode cause travels with the sentinel
	if err.Error() == ErrMalformedRecord.Error() {
		t.Error("Decode cause dropped from malformed-record error")
	}
}
