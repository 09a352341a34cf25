package badger

import (
	"testing"
)

func TestIndexRoundTrip(t *testing.T) {
	g := newTestGraph(t)

	if err := g.SetIndex("slug", []byte("renaissance"), "#1:1"); err != nil {
		t.Fatalf("Failed to set index: %v", err)
	}

	id, found, err := g.LookupIndex("slug", []byte("renaissance"))
	if err != nil || !found {
		t.Fatalf("Expected entry, got %v/%v", found, err)
	}
	if id != "#1:1" {
		t.Fatalf("Expected #1:1, got %s", id)
	}

	if err := g.DeleteIndex("slug", []byte("renaissance")); err != nil {
		t.Fatalf("Failed to delete index: %v", err)
	}
	_, found, err = g.LookupIndex("slug", []byte("renaissance"))
	if err != nil || found {
		t.Fatalf("Expected entry to be gone, got %v/%v", found, err)
	}

	// deleting again is a no-op
	if err := g.DeleteIndex("slug", []byte("renaissance")); err != nil {
		t.Fatalf("Expected idempotent delete, got %v", err)
	}
}

func TestSetIndexIfAbsentClaims(t *testing.T) {
	g := newTestGraph(t)

	winner, claimed, err := g.SetIndexIfAbsent("slug", []byte("medici"), "#1:1")
	if err != nil {
		t.Fatalf("Failed to claim: %v", err)
	}
	if !claimed || winner != "#1:1" {
		t.Fatalf("Expected first claim to win, got %s/%v", winner, claimed)
	}

	// second claim loses and sees the first claimant
	winner, claimed, err = g.SetIndexIfAbsent("slug", []byte("medici"), "#1:2")
	if err != nil {
		t.Fatalf("Failed on second claim: %v", err)
	}
	if claimed || winner != "#1:1" {
		t.Fatalf("Expected second claim to lose to #1:1, got %s/%v", winner, claimed)
	}
}

func TestScanIndexPrefix(t *testing.T) {
	g := newTestGraph(t)

	entries := map[string]string{
		"#2:1|#4:1": "#4:1",
		"#2:1|#4:2": "#4:2",
		"#2:9|#4:3": "#4:3",
	}
	for key, id := range entries {
		if err := g.SetIndex("byref", []byte(key), id); err != nil {
			t.Fatalf("Failed to set index: %v", err)
		}
	}

	var ids []string
	err := g.ScanIndex("byref", []byte("#2:1|"), func(_ []byte, id string) error {
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanIndex failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 entries under prefix, got %v", ids)
	}
}
