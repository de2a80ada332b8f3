// Package uploader implements the client half of the two-phase photo
// upload: ask the API for a signed upload URL, then PUT the file bytes
// straight to blob storage. The returned public URL is the caller's to
// persist; the uploader never touches the student record.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUploadFailed covers both phases: SAS issuance and the direct
// transfer. Nothing is retried and no partial state survives a failure;
// an issued-but-unused signed URL simply expires server-side.
var ErrUploadFailed = errors.New("upload failed")

// Client uploads files through a studentdesk API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an upload client for the API at baseURL (e.g.
// "http://localhost:8080/api").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// NewWithHTTPClient allows injecting a custom HTTP client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Upload performs the two-phase upload and returns the durable public
// URL of the stored blob.
func (c *Client) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	target, err := c.requestUploadTarget(ctx, filename, contentType)
	if err != nil {
		return "", err
	}

	if err := c.putBlob(ctx, target.UploadURL, contentType, body); err != nil {
		return "", err
	}

	return target.PublicURL, nil
}

type uploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

func (c *Client) requestUploadTarget(ctx context.Context, filename, contentType string) (*uploadTarget, error) {
	payload, err := json.Marshal(map[string]string{
		"filename":    filename,
		"contentType": contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode sas request: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/blob-sas", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build sas request: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sas request: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: sas request returned %d", ErrUploadFailed, resp.StatusCode)
	}

	var target uploadTarget
	if err := json.NewDecoder(resp.Body).Decode(&target); err != nil {
		return nil, fmt.Errorf("%w: decode sas response: %v", ErrUploadFailed, err)
	}
	if target.UploadURL == "" || target.PublicURL == "" {
		return nil, fmt.Errorf("%w: sas response missing URLs", ErrUploadFailed)
	}
	return &target, nil
}

func (c *Client) putBlob(ctx context.Context, uploadURL, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("%w: build blob request: %v", ErrUploadFailed, err)
	}
	// Azure requires the blob type header on direct PUT uploads.
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: blob transfer: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: blob transfer returned %d", ErrUploadFailed, resp.StatusCode)
	}
	return nil
}
