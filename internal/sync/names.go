package sync

import (
	"fmt"
	"strings"
)

// DefaultExtensions maps export MIME types to the file extension appended to
// exported documents. Config may add or override entries.
var DefaultExtensions = map[string]string{
	"text/html":                 ".html",
	"text/plain":                ".txt",
	"text/markdown":             ".md",
	"text/csv":                  ".csv",
	"text/tab-separated-values": ".tsv",
	"application/rtf":           ".rtf",
	"application/pdf":           ".pdf",
	"application/zip":           ".zip",
	"application/epub+zip":      ".epub",
	"image/png":                 ".png",
	"image/jpeg":                ".jpg",
	"image/svg+xml":             ".svg",

	"application/vnd.oasis.opendocument.text":                                   ".odt",
	"application/vnd.oasis.opendocument.spreadsheet":                            ".ods",
	"application/vnd.oasis.opendocument.presentation":                           ".odp",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         ".xlsx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
}

// ExportFormat is the export choice for one document subtype.
type ExportFormat struct {
	Enabled  bool
	MimeType string
}

// ExportPolicy decides which Drive-native documents are exported and how the
// exported copy is named. It is built once per run and never mutated.
type ExportPolicy struct {
	Formats    map[string]ExportFormat // keyed by document subtype
	Extensions map[string]string       // export MIME type -> extension
}

// Enabled reports whether documents of the given subtype are exported.
func (p *ExportPolicy) Enabled(subtype string) bool {
	return p.Formats[subtype].Enabled
}

// target returns the export MIME type and extension for an enabled subtype.
func (p *ExportPolicy) target(subtype string) (string, string, error) {
	f, ok := p.Formats[subtype]
	if !ok || f.MimeType == "" {
		return "", "", fmt.Errorf("%w: no export format for document subtype %q", ErrConfiguration, subtype)
	}

	ext, ok := p.Extensions[f.MimeType]
	if !ok {
		return "", "", fmt.Errorf("%w: no extension for export type %q (subtype %q)", ErrConfiguration, f.MimeType, subtype)
	}

	return f.MimeType, ext, nil
}

// ResolveName computes the local file name of an entry. Folders and opaque
// files keep their remote name verbatim; documents get the extension of their
// subtype's export format.
//
// Names are compared and resolved as plain strings. Remote renames therefore
// look like a delete of the old name plus an add of the new one.
func ResolveName(e RemoteEntry, p *ExportPolicy) (string, error) {
	if err := checkName(e.Name); err != nil {
		return "", err
	}

	if e.Kind != KindDocument {
		return e.Name, nil
	}

	_, ext, err := p.target(e.Subtype)
	if err != nil {
		return "", err
	}

	return e.Name + ext, nil
}

// checkName rejects names that cannot be used as a single path component.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}

	return nil
}
