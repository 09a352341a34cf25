package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Tag is a node of the tag hierarchy. Titles are unique, matched
// case-insensitively on their normalized slug. A tag may have any number of
// parent and child tags via IsTagOf edges; the graph is kept cycle-free.
type Tag struct {
	EntityBase
	AuditFields
	Title string
}

func (*Tag) Model() string { return ModelTag }

// TitleSlug returns the normalized form of the title used for
// case-insensitive uniqueness.
func (t *Tag) TitleSlug() string {
	return Sluggify(t.Title)
}

// Node is a catalogued entity of the research graph.
type Node struct {
	EntityBase
	AuditFields
	Title             string
	AlternativeTitles string
	Description       string
	DescriptionMarkup string
}

func (*Node) Model() string { return ModelNode }

// Source is a bibliographic source.
type Source struct {
	EntityBase
	AuditFields
	ShortTitle  string
	LongTitle   string
	Citation    string
	Description string
}

func (*Source) Model() string { return ModelSource }

// SourceReference links a Source to any annotatable entity. The referenced
// entity is a polymorphic reference resolved at read time.
type SourceReference struct {
	EntityBase
	AuditFields
	SourceID      string
	Reference     IdModelTuple
	ReferenceText string
}

func (*SourceReference) Model() string { return ModelSourceReference }

// Comment is a free-text annotation attachable to any annotatable entity via
// an IsCommentOf edge.
type Comment struct {
	EntityBase
	AuditFields
	Text   string
	Markup string
}

func (*Comment) Model() string { return ModelComment }

// File holds binary payload metadata. The payload itself lives outside the
// graph store; ContentHash identifies it.
type File struct {
	EntityBase
	AuditFields
	Filename    string
	MimeType    string
	Size        int64
	ContentHash string
	Description string
}

func (*File) Model() string { return ModelFile }

// HashContent computes and sets the content hash identifier for data.
func (f *File) HashContent(data []byte) string {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	f.ContentHash = hex.EncodeToString(h.Sum(nil))
	f.Size = int64(len(data))
	return f.ContentHash
}

// User is an account that may appear as creator/modifier back-reference.
type User struct {
	EntityBase
	AuditFields
	Login     string
	Name      string
	Role      string
	Active    bool
	LastLogin int64
}

func (*User) Model() string { return ModelUser }
