package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Blob is one artifact handed to the cloud sink, with the metadata the sink
// files it under.
type Blob struct {
	Filename        string
	ContentType     string
	Data            []byte
	IntervieweeName string
	FolderID        string
}

// Uploader delivers a Blob to the cloud sink. Failures are terminal for the
// attempt; no retry exists anywhere in the system.
type Uploader interface {
	Upload(ctx context.Context, b Blob) error
}

// HTTPUploader posts blobs to a configured endpoint.
type HTTPUploader struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPUploader creates an uploader for endpoint.
func NewHTTPUploader(endpoint string, timeout time.Duration, logger *slog.Logger) *HTTPUploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPUploader{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Upload posts the blob body with its metadata in headers.
func (u *HTTPUploader) Upload(ctx context.Context, b Blob) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(b.Data))
	if err != nil {
		return fmt.Errorf("upload: build request: %w", err)
	}
	req.Header.Set("Content-Type", b.ContentType)
	req.Header.Set("X-Filename", b.Filename)
	req.Header.Set("X-Interviewee-Name", b.IntervieweeName)
	req.Header.Set("X-Folder-ID", b.FolderID)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload: sink returned %d", resp.StatusCode)
	}

	u.logger.Info("artifact uploaded",
		"filename", b.Filename,
		"folder_id", b.FolderID,
		"bytes", len(b.Data))
	return nil
}
