package main

import (
	"bytes"
	"context"
	"io"
	gosync "sync"

	"github.com/tonimelisma/drivemirror/internal/gdrive"
)

// memStore is a minimal in-memory sync.RemoteStore for command tests.
type memStore struct {
	mu       gosync.Mutex
	children map[string][]gdrive.File
	content  map[string][]byte
	authErr  error

	// throttles makes the next N listings fail with ErrRateLimited.
	throttles int
	lists     int
}

func newMemStore() *memStore {
	return &memStore{
		children: map[string][]gdrive.File{},
		content:  map[string][]byte{},
	}
}

func (s *memStore) add(parent string, f gdrive.File, data []byte) {
	s.children[parent] = append(s.children[parent], f)
	s.content[f.ID] = data
}

func (s *memStore) Authenticate(context.Context) error { return s.authErr }

func (s *memStore) ListChildren(_ context.Context, folderID string) ([]gdrive.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists++

	if s.throttles > 0 {
		s.throttles--
		return nil, &gdrive.DriveError{StatusCode: 429, Err: gdrive.ErrRateLimited}
	}

	files, ok := s.children[folderID]
	if !ok {
		return nil, &gdrive.DriveError{StatusCode: 404, Err: gdrive.ErrNotFound}
	}

	return append([]gdrive.File(nil), files...), nil
}

func (s *memStore) Download(_ context.Context, fileID string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return io.NopCloser(bytes.NewReader(s.content[fileID])), nil
}

func (s *memStore) Export(ctx context.Context, fileID, _ string) (io.ReadCloser, error) {
	return s.Download(ctx, fileID)
}
