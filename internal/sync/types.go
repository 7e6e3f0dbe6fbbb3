package sync

import (
	"context"
	"io"
	"time"

	"github.com/tonimelisma/drivemirror/internal/gdrive"
)

// Kind classifies a remote entry for the walk.
type Kind int

const (
	// KindFile is an opaque file downloaded byte for byte.
	KindFile Kind = iota
	// KindFolder is a directory that is created locally and recursed into.
	KindFolder
	// KindDocument is a Drive-native document that must be exported.
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	case KindDocument:
		return "document"
	default:
		return "unknown"
	}
}

// RemoteEntry is an immutable snapshot of one child from a single listing
// call. It carries no identity beyond the current run.
type RemoteEntry struct {
	ID         string
	Name       string
	Kind       Kind
	Subtype    string // document subtype ("document", "spreadsheet", ...); empty otherwise
	MimeType   string // native MIME type as reported by the remote store
	Size       int64
	ModifiedAt time.Time
}

// NewRemoteEntry classifies a listed Drive file.
func NewRemoteEntry(f *gdrive.File) RemoteEntry {
	e := RemoteEntry{
		ID:         f.ID,
		Name:       f.Name,
		Kind:       KindFile,
		MimeType:   f.MimeType,
		Size:       f.Size,
		ModifiedAt: f.ModifiedAt,
	}

	if f.IsFolder() {
		e.Kind = KindFolder
	} else if subtype, ok := f.NativeSubtype(); ok {
		e.Kind = KindDocument
		e.Subtype = subtype
	}

	return e
}

func entriesFromFiles(files []gdrive.File) []RemoteEntry {
	entries := make([]RemoteEntry, 0, len(files))
	for i := range files {
		entries = append(entries, NewRemoteEntry(&files[i]))
	}

	return entries
}

// --- Consumer-defined interfaces for the Drive client ---
// These decouple the sync package from gdrive's concrete client,
// following the "accept interfaces, return structs" Go convention.

// Lister lists the direct children of a remote folder.
type Lister interface {
	ListChildren(ctx context.Context, folderID string) ([]gdrive.File, error)
}

// ContentSource opens the content of remote files. Both methods must return
// an error matching gdrive.ErrRateLimited when the store throttles the call.
type ContentSource interface {
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
	Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error)
}

// RemoteStore is everything a run needs from the remote side.
type RemoteStore interface {
	Lister
	ContentSource
	Authenticate(ctx context.Context) error
}

// TransformFunc rewrites exported document bytes before they are persisted.
// It runs once per exported document.
type TransformFunc func(ctx context.Context, entry RemoteEntry, data []byte) ([]byte, error)
