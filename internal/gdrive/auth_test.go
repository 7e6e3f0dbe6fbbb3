package gdrive

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type errTokenSource struct{}

func (errTokenSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("invalid_grant")
}

func TestTokenBridge_ReturnsAccessToken(t *testing.T) {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: "abc",
		Expiry:      time.Now().Add(time.Hour),
	})

	b := &tokenBridge{src: src, logger: slog.Default()}
	tok, err := b.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}

func TestTokenBridge_WrapsError(t *testing.T) {
	b := &tokenBridge{src: errTokenSource{}, logger: slog.Default()}
	_, err := b.Token()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestTokenSourceFromKeyFile_MissingFile(t *testing.T) {
	_, err := TokenSourceFromKeyFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"), slog.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTokenSourceFromKeyFile_InvalidKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"authorized_user"}`), 0o600))

	_, err := TokenSourceFromKeyFile(context.Background(), path, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing key file")
}
