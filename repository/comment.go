package repository

import (
	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// CommentRepository handles comments and their IsCommentOf edges. A comment
// can annotate any number of subjects; deleting a subject only detaches the
// edge, the comment vertex stays.
type CommentRepository struct {
	*Base[*core.Comment]
}

type commentMapper struct{}

func (commentMapper) Model() string { return core.ModelComment }

func (commentMapper) ToRecord(c *core.Comment, rec *store.Record) {
	rec.Set("text", c.Text)
	rec.Set("markup", c.Markup)
}

func (commentMapper) FromRecord(rec *store.Record) *core.Comment {
	return &core.Comment{
		Text:   rec.String("text"),
		Markup: rec.String("markup"),
	}
}

func newCommentRepository(f *Factory) *CommentRepository {
	r := &CommentRepository{Base: newBase[*core.Comment](f, commentMapper{})}
	r.beforeSave = func(c *core.Comment) error { return core.ValidateComment(c) }
	// comments are themselves annotatable, so their deletion cascades too
	r.afterDelete = func(c *core.Comment) error {
		return cascadeAnnotations(f, c.ID())
	}
	return r
}

// AttachTo connects the comment to a subject. Returns false without error
// when either side is unsaved or the connection already exists.
func (r *CommentRepository) AttachTo(comment *core.Comment, subject core.IdModelTuple) (bool, error) {
	if comment == nil {
		return false, nil
	}
	return attachAnnotation(r.factory, store.EdgeIsCommentOf, comment.ID(), subject.ID)
}

// DetachFrom removes the connection between comment and subject. Returns
// false when there was nothing to remove.
func (r *CommentRepository) DetachFrom(comment *core.Comment, subject core.IdModelTuple) (bool, error) {
	if comment == nil {
		return false, nil
	}
	return detachAnnotation(r.factory, store.EdgeIsCommentOf, comment.ID(), subject.ID)
}

// FindBySubject returns the comments attached to a subject, in attachment
// key order.
func (r *CommentRepository) FindBySubject(subjectID string) ([]*core.Comment, error) {
	if subjectID == "" {
		return nil, nil
	}
	ids, err := r.factory.store.EdgesTo(store.EdgeIsCommentOf, subjectID)
	if err != nil {
		return nil, err
	}

	var result []*core.Comment
	for _, id := range ids {
		c, err := r.Find(id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			result = append(result, c)
		}
	}
	return result, nil
}

// FindSubjects resolves the entities a comment is attached to, skipping
// references that no longer resolve.
func (r *CommentRepository) FindSubjects(commentID string) ([]core.Entity, error) {
	if commentID == "" {
		return nil, nil
	}
	ids, err := r.factory.store.EdgesFrom(store.EdgeIsCommentOf, commentID)
	if err != nil {
		return nil, err
	}
	return resolveSubjects(r.factory, ids), nil
}

// HasConnections reports whether the comment is still attached to any
// subject.
func (r *CommentRepository) HasConnections(comment *core.Comment) (bool, error) {
	if comment == nil {
		return false, nil
	}
	return annotationInUse(r.factory, store.EdgeIsCommentOf, comment.ID())
}
