package gdrive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ScopeReadOnly is the only scope a mirror needs.
const ScopeReadOnly = "https://www.googleapis.com/auth/drive.readonly"

// ErrNoCredentials is returned when neither a key file nor Application
// Default Credentials are available.
var ErrNoCredentials = errors.New("gdrive: no credentials configured")

// TokenSourceFromKeyFile builds a TokenSource from a service account JSON key.
// When keyFile is empty it falls back to Application Default Credentials
// (GOOGLE_APPLICATION_CREDENTIALS, gcloud user credentials, metadata server).
//
// No token is fetched here; the first Token call performs the JWT exchange.
// ctx must outlive the TokenSource because refreshes are bound to it.
func TokenSourceFromKeyFile(ctx context.Context, keyFile string, logger *slog.Logger) (TokenSource, error) {
	if keyFile == "" {
		creds, err := google.FindDefaultCredentials(ctx, ScopeReadOnly)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoCredentials, err)
		}

		logger.Info("using application default credentials",
			slog.String("project_id", creds.ProjectID),
		)

		return &tokenBridge{src: creds.TokenSource, logger: logger}, nil
	}

	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("gdrive: reading key file %s: %w", keyFile, err)
	}

	cfg, err := google.JWTConfigFromJSON(data, ScopeReadOnly)
	if err != nil {
		return nil, fmt.Errorf("gdrive: parsing key file %s: %w", keyFile, err)
	}

	logger.Info("loaded service account key",
		slog.String("path", keyFile),
		slog.String("email", cfg.Email),
	)

	return &tokenBridge{src: cfg.TokenSource(ctx), logger: logger}, nil
}

// tokenBridge adapts oauth2.TokenSource to gdrive.TokenSource.
// Logs every token acquisition so refresh activity is visible.
type tokenBridge struct {
	src    oauth2.TokenSource
	logger *slog.Logger
}

func (b *tokenBridge) Token() (string, error) {
	t, err := b.src.Token()
	if err != nil {
		b.logger.Warn("token acquisition failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("gdrive: obtaining token: %w", err)
	}

	b.logger.Debug("token acquired",
		slog.Time("expiry", t.Expiry),
		slog.Bool("valid", t.Valid()),
	)

	return t.AccessToken, nil
}
