package gdrive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// listPageSize is the pageSize for files.list. 1000 is the API maximum.
const listPageSize = 1000

const listFields = "nextPageToken,files(id,name,mimeType,size,modifiedTime)"

// fileResponse mirrors the Drive files resource. Unexported; callers use File.
type fileResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	Size         string `json:"size"` // int64 encoded as a JSON string
	ModifiedTime string `json:"modifiedTime"`
}

type listResponse struct {
	Files         []fileResponse `json:"files"`
	NextPageToken string         `json:"nextPageToken"`
}

func (r *fileResponse) toFile(logger *slog.Logger) File {
	f := File{
		ID:       r.ID,
		Name:     r.Name,
		MimeType: r.MimeType,
	}

	if r.Size != "" {
		n, err := strconv.ParseInt(r.Size, 10, 64)
		if err != nil {
			logger.Warn("invalid size in listing",
				slog.String("file_id", r.ID),
				slog.String("raw", r.Size),
			)
		} else {
			f.Size = n
		}
	}

	if r.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, r.ModifiedTime); err == nil {
			f.ModifiedAt = t
		}
	}

	return f
}

// parentQuery builds the files.list query for the direct, non-trashed
// children of folderID. Quotes and backslashes in the ID are escaped.
func parentQuery(folderID string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(folderID)

	return fmt.Sprintf("'%s' in parents and trashed = false", escaped)
}

// ListChildren returns all children of a folder, following nextPageToken.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]File, error) {
	c.logger.Debug("listing children", slog.String("folder_id", folderID))

	var files []File

	pageToken := ""
	page := 1

	for {
		q := url.Values{}
		q.Set("q", parentQuery(folderID))
		q.Set("fields", listFields)
		q.Set("pageSize", strconv.Itoa(listPageSize))
		q.Set("supportsAllDrives", "true")
		q.Set("includeItemsFromAllDrives", "true")

		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		lr, err := c.listPage(ctx, q)
		if err != nil {
			return nil, err
		}

		for i := range lr.Files {
			files = append(files, lr.Files[i].toFile(c.logger))
		}

		c.logger.Debug("fetched children page",
			slog.String("folder_id", folderID),
			slog.Int("page", page),
			slog.Int("count", len(lr.Files)),
		)

		if lr.NextPageToken == "" {
			break
		}

		pageToken = lr.NextPageToken
		page++
	}

	c.logger.Debug("listed children complete",
		slog.String("folder_id", folderID),
		slog.Int("total_items", len(files)),
	)

	return files, nil
}

func (c *Client) listPage(ctx context.Context, q url.Values) (*listResponse, error) {
	resp, err := c.get(ctx, "/files", q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("gdrive: decoding list response: %w", err)
	}

	return &lr, nil
}

// Download opens the binary content of a file. The caller closes the reader.
// Only the request/response exchange can fail with ErrRateLimited; errors
// while streaming the body surface from Read.
func (c *Client) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	q := url.Values{}
	q.Set("alt", "media")
	q.Set("supportsAllDrives", "true")

	resp, err := c.get(ctx, "/files/"+url.PathEscape(fileID), q)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// Export opens the content of a Drive-native document converted to mimeType.
// The caller closes the reader.
func (c *Client) Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	q := url.Values{}
	q.Set("mimeType", mimeType)

	resp, err := c.get(ctx, "/files/"+url.PathEscape(fileID)+"/export", q)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}
