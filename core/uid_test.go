package core

import (
	"errors"
	"testing"
)

func TestIDToUID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    string
		wantErr error
	}{
		{name: "simple id", id: "#1:0", want: "1-0"},
		{name: "large numbers", id: "#4711:281474976710655", want: "4711-281474976710655"},
		{name: "missing hash", id: "1:0", wantErr: ErrInvalidIdentifier},
		{name: "missing position", id: "#1:", wantErr: ErrInvalidIdentifier},
		{name: "negative cluster", id: "#-1:0", wantErr: ErrInvalidIdentifier},
		{name: "empty", id: "", wantErr: ErrInvalidIdentifier},
		{name: "trailing garbage", id: "#1:0x", wantErr: ErrInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IDToUID(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUIDToID(t *testing.T) {
	tests := []struct {
		name    string
		uid     string
		want    string
		wantErr error
	}{
		{name: "simple uid", uid: "1-0", want: "#1:0"},
		{name: "large numbers", uid: "4711-281474976710655", want: "#4711:281474976710655"},
		{name: "record id form", uid: "#1:0", wantErr: ErrInvalidIdentifier},
		{name: "empty", uid: "", wantErr: ErrInvalidIdentifier},
		{name: "double dash", uid: "1--0", wantErr: ErrInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UIDToID(tt.uid)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIDUIDRoundTrip(t *testing.T) {
	ids := []string{"#1:0", "#2:1", "#7:4711", "#123:456789"}
	for _, id := range ids {
		uid, err := IDToUID(id)
		if err != nil {
			t.Fatalf("IDToUID(%q) failed: %v", id, err)
		}
		back, err := UIDToID(uid)
		if err != nil {
			t.Fatalf("UIDToID(%q) failed: %v", uid, err)
		}
		if back != id {
			t.Fatalf("Round trip changed %q to %q", id, back)
		}
	}
}

func TestParseFormatID(t *testing.T) {
	cluster, pos, err := ParseID("#3:42")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cluster != 3 || pos != 42 {
		t.Fatalf("Expected 3/42, got %d/%d", cluster, pos)
	}
	if got := FormatID(3, 42); got != "#3:42" {
		t.Fatalf("Expected #3:42, got %q", got)
	}

	if _, _, err := ParseID("nope"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("Expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestValidID(t *testing.T) {
	if !ValidID("#1:0") {
		t.Fatal("Expected #1:0 to be valid")
	}
	if ValidID("1-0") {
		t.Fatal("Expected uid form to be invalid as id")
	}
}

func TestEntityBaseUIDCache(t *testing.T) {
	tag := &Tag{Title: "test"}
	if tag.UID() != "" {
		t.Fatal("Expected empty uid for unsaved entity")
	}

	tag.SetID("#1:7")
	if tag.UID() != "1-7" {
		t.Fatalf("Expected 1-7, got %q", tag.UID())
	}

	// changing the id must invalidate the cached uid
	tag.SetID("#1:8")
	if tag.UID() != "1-8" {
		t.Fatalf("Expected 1-8 after id change, got %q", tag.UID())
	}
}
