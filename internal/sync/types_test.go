package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tonimelisma/drivemirror/internal/gdrive"
)

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		k    Kind
		want string
	}{
		{KindFile, "file"},
		{KindFolder, "folder"},
		{KindDocument, "document"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.k.String())
	}
}

func TestNewRemoteEntry_Classifies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mimeType    string
		wantKind    Kind
		wantSubtype string
	}{
		{"folder", gdrive.MimeFolder, KindFolder, ""},
		{"document", mimeDoc, KindDocument, "document"},
		{"spreadsheet", mimeSheet, KindDocument, "spreadsheet"},
		{"pdf", "application/pdf", KindFile, ""},
		{"docx upload", mimeDocx, KindFile, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewRemoteEntry(&gdrive.File{ID: "id", Name: "n", MimeType: tt.mimeType, Size: 3})

			assert.Equal(t, tt.wantKind, e.Kind)
			assert.Equal(t, tt.wantSubtype, e.Subtype)
			assert.Equal(t, "id", e.ID)
			assert.Equal(t, tt.mimeType, e.MimeType)
			assert.Equal(t, int64(3), e.Size)
		})
	}
}

func TestEntriesFromFiles_PreservesOrder(t *testing.T) {
	t.Parallel()

	entries := entriesFromFiles([]gdrive.File{
		{ID: "1", Name: "b"},
		{ID: "2", Name: "a", MimeType: gdrive.MimeFolder},
	})

	if assert.Len(t, entries, 2) {
		assert.Equal(t, "b", entries[0].Name)
		assert.Equal(t, KindFolder, entries[1].Kind)
	}
}
