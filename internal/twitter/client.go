// Package twitter is a minimal client for the OAuth 1.0a-signed status
// update and media upload endpoints. It signs every request itself; see
// the oauth package for the signature construction.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/abdulachik/twitpost/internal/oauth"
)

const (
	statusUpdateURL = "https://api.twitter.com/1.1/statuses/update.json"
	mediaUploadURL  = "https://upload.twitter.com/1.1/media/upload.json"

	defaultTimeout = 10 * time.Second
)

// Doer issues a single HTTP request. *http.Client satisfies it; tests
// install stubs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds configuration for the client.
type Config struct {
	Credentials oauth.Credentials

	// HTTPClient overrides the transport. Defaults to an *http.Client
	// bounded by Timeout.
	HTTPClient Doer

	// Timeout bounds each transport call when HTTPClient is not set.
	// Defaults to 10 seconds.
	Timeout time.Duration
}

// Client posts status updates and uploads media. It holds only the
// immutable credentials and the transport; every operation works on a
// fresh Request, so a Client may be shared as long as each logical
// post/upload sequence runs sequentially.
type Client struct {
	signer      *oauth.Signer
	transport   Doer
	lastStatus  int
	lastMediaID string
}

// NewClient validates the credentials and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}

	transport := cfg.HTTPClient
	if transport == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		transport = &http.Client{Timeout: timeout}
	}

	return &Client{
		signer:    oauth.NewSigner(cfg.Credentials),
		transport: transport,
	}, nil
}

// NewRequest starts a fresh request carrying no state from earlier calls.
func (c *Client) NewRequest() *Request {
	return newRequest(c.signer, c.transport)
}

// PostUpdate posts a status update, attaching mediaID when non-empty.
// The returned bool reports whether the platform accepted the update,
// judged by a created_at field in the response; a missing field, empty
// body, or undecodable body yields false without an error. Errors are
// reserved for usage faults (empty text) and transport failures.
func (c *Client) PostUpdate(ctx context.Context, text, mediaID string) (bool, error) {
	if text == "" {
		return false, fmt.Errorf("post update: %w", ErrEmptyText)
	}

	fields := map[string]any{"status": text}
	if mediaID != "" {
		fields["media_ids"] = mediaID
	}

	req := c.NewRequest()
	if err := req.SetPostFields(fields); err != nil {
		return false, fmt.Errorf("post update: %w", err)
	}
	if _, err := req.Sign(statusUpdateURL, "post"); err != nil {
		return false, fmt.Errorf("post update: %w", err)
	}

	body, err := req.Send(ctx)
	c.lastStatus = req.StatusCode()
	if err != nil {
		return false, fmt.Errorf("post update: %w", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		slog.Debug("update response not decodable", "error", err)
		return false, nil
	}
	_, accepted := decoded["created_at"]

	slog.Info("posted status update",
		"accepted", accepted,
		"status", c.lastStatus,
		"media_id", mediaID,
	)
	return accepted, nil
}

// UploadMedia reads the file at path, uploads its raw bytes to the media
// endpoint, and on receiving a media_id chains into PostUpdate with text
// as the status. Returns false without error when the platform response
// carries no media_id. The upload body is the bare file bytes under a
// multipart content type, with no part framing; the endpoint tolerates
// this.
func (c *Client) UploadMedia(ctx context.Context, text, path string) (bool, error) {
	if text == "" {
		return false, fmt.Errorf("upload media: %w", ErrEmptyText)
	}
	c.lastMediaID = ""

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("media file %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("media file %s: is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("media file %s: %w", path, err)
	}

	req := c.NewRequest()
	if err := req.SetPostFields(map[string]any{mediaField: data}); err != nil {
		return false, fmt.Errorf("upload media: %w", err)
	}
	if _, err := req.Sign(mediaUploadURL, "post"); err != nil {
		return false, fmt.Errorf("upload media: %w", err)
	}

	body, err := req.Send(ctx)
	c.lastStatus = req.StatusCode()
	if err != nil {
		return false, fmt.Errorf("upload media: %w", err)
	}

	mediaID, ok := decodeMediaID(body)
	if !ok {
		slog.Debug("upload response carried no media_id", "status", c.lastStatus)
		return false, nil
	}
	c.lastMediaID = mediaID

	slog.Info("uploaded media", "media_id", mediaID, "bytes", len(data))
	return c.PostUpdate(ctx, text, mediaID)
}

// LastStatusCode returns the HTTP status of the most recent send made
// through this client, for diagnostics after a false result.
func (c *Client) LastStatusCode() int {
	return c.lastStatus
}

// LastMediaID returns the media id decoded by the most recent
// UploadMedia, empty when the upload was not accepted.
func (c *Client) LastMediaID() string {
	return c.lastMediaID
}

// decodeMediaID pulls the media_id out of an upload response, whether the
// platform rendered it as a JSON number or a string.
func decodeMediaID(body string) (string, bool) {
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return "", false
	}
	raw, ok := decoded["media_id"]
	if !ok {
		return "", false
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, asString != ""
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String(), true
	}
	return "", false
}
