package repository

import (
	"strings"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// FileRepository handles file metadata and IsFileOf edges. The binary
// payload lives outside the graph, identified by its content hash.
type FileRepository struct {
	*Base[*core.File]
}

type fileMapper struct{}

func (fileMapper) Model() string { return core.ModelFile }

func (fileMapper) ToRecord(f *core.File, rec *store.Record) {
	rec.Set("filename", f.Filename)
	rec.Set("mimeType", f.MimeType)
	rec.Set("size", f.Size)
	rec.Set("contentHash", f.ContentHash)
	rec.Set("description", f.Description)
}

func (fileMapper) FromRecord(rec *store.Record) *core.File {
	return &core.File{
		Filename:    rec.String("filename"),
		MimeType:    rec.String("mimeType"),
		Size:        rec.Int64("size"),
		ContentHash: rec.String("contentHash"),
		Description: rec.String("description"),
	}
}

func newFileRepository(f *Factory) *FileRepository {
	r := &FileRepository{Base: newBase[*core.File](f, fileMapper{})}
	r.less = func(a, b *core.File) bool {
		return strings.ToLower(a.Filename) < strings.ToLower(b.Filename)
	}
	r.beforeSave = func(file *core.File) error { return core.ValidateFile(file) }
	r.afterDelete = func(file *core.File) error {
		return cascadeAnnotations(f, file.ID())
	}
	return r
}

// AttachTo connects the file to a subject. Returns false without error when
// either side is unsaved or the connection already exists.
func (r *FileRepository) AttachTo(file *core.File, subject core.IdModelTuple) (bool, error) {
	if file == nil {
		return false, nil
	}
	return attachAnnotation(r.factory, store.EdgeIsFileOf, file.ID(), subject.ID)
}

// DetachFrom removes the connection between file and subject. Returns false
// when there was nothing to remove.
func (r *FileRepository) DetachFrom(file *core.File, subject core.IdModelTuple) (bool, error) {
	if file == nil {
		return false, nil
	}
	return detachAnnotation(r.factory, store.EdgeIsFileOf, file.ID(), subject.ID)
}

// FindBySubject returns the files attached to a subject.
func (r *FileRepository) FindBySubject(subjectID string) ([]*core.File, error) {
	if subjectID == "" {
		return nil, nil
	}
	ids, err := r.factory.store.EdgesTo(store.EdgeIsFileOf, subjectID)
	if err != nil {
		return nil, err
	}

	var result []*core.File
	for _, id := range ids {
		f, err := r.Find(id)
		if err != nil {
			return nil, err
		}
		if f != nil {
			result = append(result, f)
		}
	}
	return result, nil
}

// FindSubjects resolves the entities a file is attached to.
func (r *FileRepository) FindSubjects(fileID string) ([]core.Entity, error) {
	if fileID == "" {
		return nil, nil
	}
	ids, err := r.factory.store.EdgesFrom(store.EdgeIsFileOf, fileID)
	if err != nil {
		return nil, err
	}
	return resolveSubjects(r.factory, ids), nil
}

// HasConnections reports whether the file is still attached to any subject.
func (r *FileRepository) HasConnections(file *core.File) (bool, error) {
	if file == nil {
		return false, nil
	}
	return annotationInUse(r.factory, store.EdgeIsFileOf, file.ID())
}
