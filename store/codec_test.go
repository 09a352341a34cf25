package store

import (
	"errors"
	"testing"
)

func TestRecordValueRoundTrip(t *testing.T) {
	fields := map[string]any{
		"title":   "Renaissance",
		"created": int64(1700000000000),
		"active":  true,
	}

	data, err := MarshalRecordValue(3, fields)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	version, got, err := UnmarshalRecordValue(data)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if version != 3 {
		t.Fatalf("Expected version 3, got %d", version)
	}

	rec := &Record{Fields: got}
	if rec.String("title") != "Renaissance" {
		t.Fatalf("Expected title to survive, got %q", rec.String("title"))
	}
	if rec.Int64("created") != 1700000000000 {
		t.Fatalf("Expected created to survive, got %d", rec.Int64("created"))
	}
	if !rec.Bool("active") {
		t.Fatal("Expected active to survive")
	}
}

func TestUnmarshalRecordValueGarbage(t *testing.T) {
	if _, _, err := UnmarshalRecordValue([]byte{}); !errors.Is(err, ErrSerializationFailed) {
		t.Fatalf("Expected ErrSerializationFailed, got %v", err)
	}
}

func TestEdgeValueRoundTrip(t *testing.T) {
	data := MarshalEdgeValue(1700000000000)
	created, err := UnmarshalEdgeValue(data)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if created != 1700000000000 {
		t.Fatalf("Expected timestamp to survive, got %d", created)
	}
}

func TestRecordSetNilDeletes(t *testing.T) {
	rec := NewRecord("Tag")
	rec.Set("title", "test")
	rec.Set("title", nil)
	if _, ok := rec.Fields["title"]; ok {
		t.Fatal("Expected field to be removed")
	}
}
