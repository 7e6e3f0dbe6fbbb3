package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// maxTransformStderr bounds how much of a failing command's stderr is kept
// in the returned error.
const maxTransformStderr = 4 << 10

// CommandTransform returns a TransformFunc that pipes exported bytes through
// an external program. argv[0] is the program; the document is written to
// its stdin and its stdout replaces the exported content. The program sees
// TRANSFORM_NAME, TRANSFORM_SUBTYPE and TRANSFORM_MIME_TYPE in its
// environment. An empty argv returns nil, meaning no transform.
func CommandTransform(argv []string, logger *slog.Logger) TransformFunc {
	if len(argv) == 0 {
		return nil
	}

	args := append([]string(nil), argv...)

	return func(ctx context.Context, e RemoteEntry, data []byte) ([]byte, error) {
		cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // command comes from the user's own config
		cmd.Stdin = bytes.NewReader(data)
		cmd.Env = append(os.Environ(),
			"TRANSFORM_NAME="+e.Name,
			"TRANSFORM_SUBTYPE="+e.Subtype,
			"TRANSFORM_MIME_TYPE="+e.MimeType,
		)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			msg := strings.TrimSpace(stderr.String())
			if len(msg) > maxTransformStderr {
				msg = msg[:maxTransformStderr]
			}

			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) && msg != "" {
				return nil, fmt.Errorf("transform command %s: %w: %s", args[0], err, msg)
			}

			return nil, fmt.Errorf("transform command %s: %w", args[0], err)
		}

		if stderr.Len() > 0 {
			logger.Debug("transform command wrote to stderr",
				slog.String("name", e.Name),
				slog.String("stderr", strings.TrimSpace(stderr.String())),
			)
		}

		return stdout.Bytes(), nil
	}
}
