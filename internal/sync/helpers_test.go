package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	gosync "sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/drivemirror/internal/gdrive"
)

const (
	testRoot  = "root-folder"
	testDest  = "/dest"
	mimeDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDoc   = "application/vnd.google-apps.document"
	mimeXlsx  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeSheet = "application/vnd.google-apps.spreadsheet"
)

// fakeStore is an in-memory RemoteStore. Safe for concurrent use.
type fakeStore struct {
	mu gosync.Mutex

	children map[string][]gdrive.File // folder ID -> listing
	content  map[string][]byte        // file ID -> bytes (download and export)

	authErr     error
	listErr     map[string]error // folder ID -> error
	downloadErr map[string]error // file ID -> error

	// rateLimits makes the next N calls for an ID fail with ErrRateLimited.
	rateLimits map[string]int

	downloads   int
	exports     int
	lists       int
	exportMimes map[string]string // file ID -> requested MIME type
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		children:    map[string][]gdrive.File{},
		content:     map[string][]byte{},
		listErr:     map[string]error{},
		downloadErr: map[string]error{},
		rateLimits:  map[string]int{},
		exportMimes: map[string]string{},
	}
}

func (s *fakeStore) addFolder(parent, id, name string) {
	s.children[parent] = append(s.children[parent], gdrive.File{ID: id, Name: name, MimeType: gdrive.MimeFolder})
	if _, ok := s.children[id]; !ok {
		s.children[id] = nil
	}
}

func (s *fakeStore) addFile(parent, id, name, mimeType string, data []byte) {
	s.children[parent] = append(s.children[parent], gdrive.File{
		ID: id, Name: name, MimeType: mimeType, Size: int64(len(data)),
	})
	s.content[id] = data
}

func (s *fakeStore) remove(parent, id string) {
	kept := s.children[parent][:0]
	for _, f := range s.children[parent] {
		if f.ID != id {
			kept = append(kept, f)
		}
	}

	s.children[parent] = kept
}

// throttled consumes one pending rate limit for id. Caller holds mu.
func (s *fakeStore) throttled(id string) bool {
	if s.rateLimits[id] > 0 {
		s.rateLimits[id]--
		return true
	}

	return false
}

func (s *fakeStore) Authenticate(_ context.Context) error {
	return s.authErr
}

func (s *fakeStore) ListChildren(_ context.Context, folderID string) ([]gdrive.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists++

	if s.throttled(folderID) {
		return nil, &gdrive.DriveError{StatusCode: 429, Err: gdrive.ErrRateLimited}
	}

	if err := s.listErr[folderID]; err != nil {
		return nil, err
	}

	files, ok := s.children[folderID]
	if !ok {
		return nil, &gdrive.DriveError{StatusCode: 404, Err: gdrive.ErrNotFound}
	}

	return append([]gdrive.File(nil), files...), nil
}

func (s *fakeStore) Download(_ context.Context, fileID string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.throttled(fileID) {
		return nil, &gdrive.DriveError{StatusCode: 403, Reason: "userRateLimitExceeded", Err: gdrive.ErrRateLimited}
	}

	if err := s.downloadErr[fileID]; err != nil {
		return nil, err
	}

	s.downloads++

	return io.NopCloser(bytes.NewReader(s.content[fileID])), nil
}

func (s *fakeStore) Export(_ context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.throttled(fileID) {
		return nil, &gdrive.DriveError{StatusCode: 429, Err: gdrive.ErrRateLimited}
	}

	if err := s.downloadErr[fileID]; err != nil {
		return nil, err
	}

	s.exports++
	s.exportMimes[fileID] = mimeType

	return io.NopCloser(bytes.NewReader(s.content[fileID])), nil
}

func (s *fakeStore) counts() (downloads, exports int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.downloads, s.exports
}

// failingReader returns an error after yielding some bytes.
type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	n := copy(p, "partial")
	return n, errors.New("connection reset")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noopSleep(_ context.Context, _ time.Duration) error {
	return nil
}

// docxPolicy exports Google Docs as .docx and leaves other subtypes off.
func docxPolicy(enabled bool) ExportPolicy {
	return ExportPolicy{
		Formats: map[string]ExportFormat{
			"document":    {Enabled: enabled, MimeType: mimeDocx},
			"spreadsheet": {Enabled: false, MimeType: mimeXlsx},
		},
		Extensions: DefaultExtensions,
	}
}

// newTestEngine builds an Engine over an in-memory filesystem.
func newTestEngine(t *testing.T, store *fakeStore, fsys afero.Fs, opts Options) *Engine {
	t.Helper()

	if opts.FolderID == "" {
		opts.FolderID = testRoot
	}

	if opts.Destination == "" {
		opts.Destination = testDest
	}

	if opts.Export.Formats == nil {
		opts.Export = docxPolicy(true)
	}

	e, err := NewEngine(&EngineConfig{
		Options: opts,
		Store:   store,
		Fs:      fsys,
		Logger:  discardLogger(),
	})
	require.NoError(t, err)

	e.sleepFunc = noopSleep

	return e
}

// readFile returns the content of path in fsys, failing the test if absent.
func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err, fmt.Sprintf("reading %s", path))

	return string(data)
}
