package sync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
)

// ContentFetcher opens the bytes to persist for a leaf entry: a raw download
// for opaque files, or an export followed by the optional transform for
// documents. Writing is the caller's job.
type ContentFetcher struct {
	source    ContentSource
	retry     *RetryPolicy
	policy    *ExportPolicy
	transform TransformFunc
	logger    *slog.Logger
}

// Fetch returns a reader over the entry's content. The caller closes it.
func (f *ContentFetcher) Fetch(ctx context.Context, e RemoteEntry) (io.ReadCloser, error) {
	switch e.Kind {
	case KindFile:
		return f.download(ctx, e)
	case KindDocument:
		return f.export(ctx, e)
	default:
		return nil, fmt.Errorf("sync: cannot fetch content of %s %q", e.Kind, e.Name)
	}
}

func (f *ContentFetcher) download(ctx context.Context, e RemoteEntry) (io.ReadCloser, error) {
	var rc io.ReadCloser

	err := f.retry.Do(ctx, "download "+e.Name, func(ctx context.Context) error {
		var err error
		rc, err = f.source.Download(ctx, e.ID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return rc, nil
}

func (f *ContentFetcher) export(ctx context.Context, e RemoteEntry) (io.ReadCloser, error) {
	mimeType, _, err := f.policy.target(e.Subtype)
	if err != nil {
		return nil, err
	}

	var rc io.ReadCloser

	err = f.retry.Do(ctx, "export "+e.Name, func(ctx context.Context) error {
		var err error
		rc, err = f.source.Export(ctx, e.ID, mimeType)

		return err
	})
	if err != nil {
		return nil, err
	}

	if f.transform == nil {
		return rc, nil
	}

	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("sync: reading export of %q: %w", e.Name, err)
	}

	out, err := f.transform(ctx, e, data)
	if err != nil {
		return nil, fmt.Errorf("sync: transforming %q: %w", e.Name, err)
	}

	f.logger.Debug("transformed export",
		slog.String("name", e.Name),
		slog.Int("in_bytes", len(data)),
		slog.Int("out_bytes", len(out)),
	)

	return io.NopCloser(bytes.NewReader(out)), nil
}
