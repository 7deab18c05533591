package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"

	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
)

// Upload transmits the artifact as a single multipart body to
// POST /api/files (fields `file` and `bucket`). The size cap is
// enforced locally before any network traffic.
//
// Uploads are not idempotent: a failed one is retried from scratch by
// re-invoking the whole step, so retries may leave orphaned artifacts
// behind.
func (c *Client) Upload(ctx context.Context, artifact models.UploadArtifact) (models.StoredReference, error) {
	var ref models.StoredReference

	if artifact.Size > models.MaxArtifactBytes {
		return ref, errkind.New(errkind.PayloadTooLarge,
			fmt.Sprintf("receipt is %d bytes, limit is %d", artifact.Size, models.MaxArtifactBytes))
	}
	if artifact.Path == "" || artifact.Name == "" {
		return ref, errkind.New(errkind.InvalidRequest, "no file selected")
	}

	token, err := c.bearerToken()
	if err != nil {
		return ref, err
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		return ref, errkind.Wrap(errkind.InvalidRequest, "open receipt file", err)
	}
	defer f.Close()

	body, contentType, err := multipartBody(f, artifact, c.bucket)
	if err != nil {
		return ref, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/api/files", body)
	if err != nil {
		return ref, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ref, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ref, c.unauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ref, errkind.New(errkind.UploadRejected, errorMessage(readBody(resp)))
	}

	// The service answers 201 with the derived object path. Fall back
	// to deriving it from the declared file name ourselves — the
	// derivation is deterministic either way.
	path := artifact.Name
	var out struct {
		Path string `json:"path"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(readBody(resp), &out); err == nil && out.Path != "" {
		path = out.Path
	}

	ref.Path = path
	if out.URL != "" {
		ref.PublicURL = out.URL
	} else {
		ref.PublicURL = fmt.Sprintf("%s/%s/%s", c.storageBase, c.bucket, path)
	}
	return ref, nil
}

// multipartBody assembles the single-shot upload body. The whole file
// fits in memory by construction (pre-flight cap).
func multipartBody(f io.Reader, artifact models.UploadArtifact, bucket string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	mediaType := artifact.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, artifact.Name))
	h.Set("Content-Type", mediaType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", errkind.Wrap(errkind.InvalidRequest, "read receipt file", err)
	}
	if err := w.WriteField("bucket", bucket); err != nil {
		return nil, "", fmt.Errorf("write bucket field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}
