package gdrive

import (
	"strings"
	"time"
)

// Drive-native MIME types.
const (
	MimeFolder    = "application/vnd.google-apps.folder"
	MimeAppPrefix = "application/vnd.google-apps."
)

// File represents a Drive file or folder as returned by a listing call.
// Fields are normalized from the API response.
type File struct {
	ID         string
	Name       string
	MimeType   string
	Size       int64 // zero for folders and Drive-native documents
	ModifiedAt time.Time
}

// IsFolder reports whether the file is a Drive folder.
func (f *File) IsFolder() bool {
	return f.MimeType == MimeFolder
}

// NativeSubtype returns the Drive-native document subtype ("document",
// "spreadsheet", ...) and true when the file has no binary content of its own
// and must be exported. Folders are not native documents.
func (f *File) NativeSubtype() (string, bool) {
	if f.IsFolder() || !strings.HasPrefix(f.MimeType, MimeAppPrefix) {
		return "", false
	}

	return strings.TrimPrefix(f.MimeType, MimeAppPrefix), true
}
