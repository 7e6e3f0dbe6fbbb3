package gdrive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the Drive v3 REST endpoint.
const DefaultBaseURL = "https://www.googleapis.com/drive/v3"

const defaultUserAgent = "drivemirror/0.1"

// maxErrorBody bounds how much of an error response is kept in DriveError.
const maxErrorBody = 64 << 10

// TokenSource provides OAuth2 bearer tokens. Defined at the consumer
// per Go convention "accept interfaces, return structs".
type TokenSource interface {
	Token() (string, error)
}

// Client is an HTTP client for the Google Drive v3 API. It handles request
// construction, authentication and error classification. It performs exactly
// one HTTP round trip per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *slog.Logger
	userAgent  string
}

// NewClient creates a Drive API client. baseURL is typically DefaultBaseURL.
func NewClient(baseURL string, httpClient *http.Client, token TokenSource, logger *slog.Logger, userAgent string) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		token:      token,
		logger:     logger,
		userAgent:  userAgent,
	}
}

// Authenticate acquires a token once so that credential problems surface
// before any traversal begins.
func (c *Client) Authenticate(_ context.Context) error {
	if _, err := c.token.Token(); err != nil {
		return fmt.Errorf("gdrive: authenticating: %w", err)
	}

	c.logger.Debug("authenticated")

	return nil
}

// get executes a GET against the API. The path is appended to the base URL
// together with the encoded query. The caller closes the body on success.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("gdrive: creating request: %w", err)
	}

	tok, err := c.token.Token()
	if err != nil {
		return nil, fmt.Errorf("gdrive: obtaining token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("gdrive: request canceled: %w", ctx.Err())
		}

		return nil, fmt.Errorf("gdrive: GET %s: %w", path, err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		c.logger.Debug("request succeeded",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)

		return resp, nil
	}

	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if readErr != nil {
		body = []byte("(failed to read response body)")
	}

	driveErr := newDriveError(resp.StatusCode, body)

	c.logger.Debug("request failed",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("reason", driveErr.Reason),
	)

	return nil, driveErr
}
