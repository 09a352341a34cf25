package core

import "testing"

func TestModelsClosedSet(t *testing.T) {
	models := Models()
	if len(models) != 7 {
		t.Fatalf("Expected 7 models, got %d", len(models))
	}

	seen := make(map[string]bool)
	for _, m := range models {
		if seen[m] {
			t.Fatalf("Duplicate model %q", m)
		}
		seen[m] = true
	}
}

func TestTupleOfEntity(t *testing.T) {
	node := &Node{Title: "Lorenzo de' Medici"}
	node.SetID("#2:1")

	tuple := Tuple(node)
	if tuple.ID != "#2:1" || tuple.Model != ModelNode {
		t.Fatalf("Unexpected tuple %+v", tuple)
	}
	if !tuple.Valid() {
		t.Fatal("Expected tuple to be valid")
	}

	if (IdModelTuple{ID: "#2:1"}).Valid() {
		t.Fatal("Tuple without model must be invalid")
	}
	if Tuple(nil).Valid() {
		t.Fatal("Tuple of nil entity must be invalid")
	}
}

func TestTagTitleSlug(t *testing.T) {
	tag := &Tag{Title: "Früh-Renaissance"}
	if tag.TitleSlug() != Sluggify("früh-renaissance") {
		t.Fatalf("Slug is not case-insensitive: %q", tag.TitleSlug())
	}
}

func TestFileHashContent(t *testing.T) {
	f := &File{Filename: "scan.pdf"}
	hash := f.HashContent([]byte("payload"))

	if hash == "" || hash != f.ContentHash {
		t.Fatalf("Expected hash to be set, got %q / %q", hash, f.ContentHash)
	}
	if f.Size != 7 {
		t.Fatalf("Expected size 7, got %d", f.Size)
	}

	// same content, same hash
	other := &File{Filename: "copy.pdf"}
	if other.HashContent([]byte("payload")) != hash {
		t.Fatal("Expected identical content to hash identically")
	}
	if other.HashContent([]byte("different")) == hash {
		t.Fatal("Expected different content to hash differently")
	}
}

func TestUserHandleMemoizesMiss(t *testing.T) {
	r := &countingResolver{}
	h := NewUserHandle("#7:99")

	if h.Get(r) != nil {
		t.Fatal("Expected nil user")
	}
	if h.Get(r) != nil {
		t.Fatal("Expected nil user on second call")
	}
	if r.calls != 1 {
		t.Fatalf("Expected exactly one resolver call, got %d", r.calls)
	}
}

type countingResolver struct {
	calls int
}

func (r *countingResolver) Resolve(IdModelTuple) Entity {
	r.calls++
	return nil
}
