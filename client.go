package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/tonimelisma/drivemirror/internal/config"
	"github.com/tonimelisma/drivemirror/internal/gdrive"
)

// Fallbacks used when the configured timeouts cannot be parsed.
const (
	fallbackConnectTimeout = 10 * time.Second
	fallbackDataTimeout    = 60 * time.Second
)

// newHTTPClient returns an HTTP client honoring the network settings. It has
// no overall request timeout; data_timeout bounds the wait for response
// headers.
func newHTTPClient(n *config.NetworkConfig) *http.Client {
	connect := n.ConnectTimeoutDuration()
	if connect <= 0 {
		connect = fallbackConnectTimeout
	}

	data := n.DataTimeoutDuration()
	if data <= 0 {
		data = fallbackDataTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connect}).DialContext
	transport.TLSHandshakeTimeout = connect
	transport.ResponseHeaderTimeout = data

	return &http.Client{Transport: transport}
}

// newDriveClient builds a Drive client authenticated with the configured
// service account key, or Application Default Credentials when none is set.
func newDriveClient(ctx context.Context, rc *config.Resolved, logger *slog.Logger) (*gdrive.Client, error) {
	ts, err := gdrive.TokenSourceFromKeyFile(ctx, rc.CredentialsFile, logger)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	return gdrive.NewClient(
		gdrive.DefaultBaseURL,
		newHTTPClient(&rc.Network),
		ts,
		logger,
		rc.Network.UserAgent,
	), nil
}
