package repository

import (
	"github.com/mkalus/segrada-sub000/core"
)

// Annotation edges always run from the annotation (out) to the annotated
// subject (in). These helpers carry the shared mechanics for comments and
// files; the cascade keeps source references from dangling when an
// annotatable record disappears.

// attachAnnotation creates the typed edge annotation -> subject. Returns
// false without error when either side is unsaved or the edge already
// exists.
func attachAnnotation(f *Factory, edgeType, annotationID, subjectID string) (bool, error) {
	if annotationID == "" || subjectID == "" {
		return false, nil
	}
	return f.store.CreateEdge(edgeType, annotationID, subjectID)
}

// detachAnnotation removes the typed edge annotation -> subject. Returns
// false when there was nothing to remove.
func detachAnnotation(f *Factory, edgeType, annotationID, subjectID string) (bool, error) {
	if annotationID == "" || subjectID == "" {
		return false, nil
	}
	return f.store.DeleteEdge(edgeType, annotationID, subjectID)
}

// annotationInUse reports whether the annotation is still attached to at
// least one subject.
func annotationInUse(f *Factory, edgeType, annotationID string) (bool, error) {
	if annotationID == "" {
		return false, nil
	}
	ids, err := f.store.EdgesFrom(edgeType, annotationID)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// resolveSubjects turns subject ids into entities via the session resolver,
// silently skipping ids that no longer resolve.
func resolveSubjects(f *Factory, ids []string) []core.Entity {
	var result []core.Entity
	for _, id := range ids {
		class, err := f.store.ClassForID(id)
		if err != nil {
			f.logger.Warn("edge endpoint outside schema", "id", id, "err", err)
			continue
		}
		if e := f.resolver.Resolve(core.IdModelTuple{ID: id, Model: class}); e != nil {
			result = append(result, e)
		}
	}
	return result
}

// cascadeAnnotations removes the source references pointing at a deleted
// record. Comment and file vertices survive; only their edges to the deleted
// record are gone, which the delete path removes anyway.
func cascadeAnnotations(f *Factory, id string) error {
	return f.SourceReferences().DeleteByReference(id)
}
