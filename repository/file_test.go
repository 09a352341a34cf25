package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalus/segrada-sub000/core"
)

func TestFileSaveRequiresFilename(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	err := f.Files().Save(&core.File{})
	assert.ErrorIs(t, err, core.ErrInvalidFile)
}

func TestFileRoundTrip(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	files := f.Files()

	file := &core.File{
		Filename:    "scan.pdf",
		MimeType:    "application/pdf",
		Description: "archival scan",
	}
	file.HashContent([]byte("pdf bytes"))
	require.NoError(t, files.Save(file))

	loaded, err := files.Find(file.ID())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "scan.pdf", loaded.Filename)
	assert.Equal(t, "application/pdf", loaded.MimeType)
	assert.Equal(t, file.ContentHash, loaded.ContentHash)
	assert.Equal(t, int64(9), loaded.Size)
}

func TestFileAttachAndFindBySubject(t *testing.T) {
	f := newTestFactory(t, core.Identity{})
	files := f.Files()

	node := &core.Node{Title: "documented"}
	require.NoError(t, f.Nodes().Save(node))
	file := &core.File{Filename: "scan.pdf"}
	require.NoError(t, files.Save(file))

	attached, err := files.AttachTo(file, core.Tuple(node))
	require.NoError(t, err)
	assert.True(t, attached)

	attached, err = files.AttachTo(file, core.Tuple(node))
	require.NoError(t, err)
	assert.False(t, attached)

	found, err := files.FindBySubject(node.ID())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, file.ID(), found[0].ID())

	subjects, err := files.FindSubjects(file.ID())
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, node.ID(), subjects[0].ID())

	detached, err := files.DetachFrom(file, core.Tuple(node))
	require.NoError(t, err)
	assert.True(t, detached)

	inUse, err := files.HasConnections(file)
	require.NoError(t, err)
	assert.False(t, inUse)
}
