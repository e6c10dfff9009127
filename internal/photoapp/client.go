// Package photoapp is the client for the photoapp web service. Each
// operation builds a request against the configured base URL, sends it
// through the retry policy, and maps the response status onto the
// typed error taxonomy in errors.go.
package photoapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avdcouto/photoapp/internal/retry"
)

const defaultTimeout = 30 * time.Second

const invalidJSONMessage = "invalid JSON response"

// Doer is the subset of *http.Client the operations rely on. Tests
// inject fakes so they can run without a live service.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client holds the immutable configuration for talking to one
// photoapp service. Construct it once with NewClient; there is no
// package-level state.
type Client struct {
	baseURL string
	doer    Doer
	policy  retry.Policy
	logger  *zap.SugaredLogger
}

type Option func(*Client)

// WithDoer replaces the underlying HTTP client.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithRetryPolicy replaces the retry policy applied to every operation.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient validates the base URL and builds a client. The default
// transport is an *http.Client with a request timeout; the default
// retry policy is 3 attempts with exponential backoff from 2s up to
// 30s, retrying transport failures only.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing base URL %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be an absolute http(s) URL", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    &http.Client{Timeout: defaultTimeout},
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Ping checks that the service, its bucket and its database are all
// reachable, returning the asset and user counts.
func (c *Client) Ping(ctx context.Context) (Ping, error) {
	var result Ping
	if err := c.call(ctx, "ping", http.MethodGet, "/ping", nil, nil, &result); err != nil {
		return Ping{}, err
	}
	return result, nil
}

// Users returns every user in the database, ordered by userid.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var resp usersResponse
	if err := c.call(ctx, "users", http.MethodGet, "/users", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Images returns images ordered by assetid. A positive userID filters
// to that user's images; the server does not validate the id, so an
// unknown userID yields an empty list rather than an error.
func (c *Client) Images(ctx context.Context, userID int64) ([]Image, error) {
	var query url.Values
	if userID > 0 {
		query = url.Values{"userid": []string{strconv.FormatInt(userID, 10)}}
	}

	var resp imagesResponse
	if err := c.call(ctx, "images", http.MethodGet, "/images", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UploadImage uploads a local image file for the given user and
// returns the assetid of the new record. The file is validated before
// any network attempt. Every attempt is a fresh upload creating a new
// server-side record, so a retry after an ambiguous failure may leave
// a duplicate; duplicates are acceptable because asset names are
// unique.
func (c *Client) UploadImage(ctx context.Context, userID int64, localFilename string) (int64, error) {
	const op = "upload image"

	name := strings.TrimSpace(localFilename)
	if name == "" {
		return 0, &ValidationError{Op: op, Message: "local filename is required"}
	}
	info, err := os.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return 0, &ValidationError{Op: op, Message: fmt.Sprintf("%s does not exist or is not a file", name)}
	}
	if info.Size() == 0 {
		return 0, &ValidationError{Op: op, Message: fmt.Sprintf("%s is empty", name)}
	}

	raw, err := os.ReadFile(name)
	if err != nil {
		return 0, &ValidationError{Op: op, Message: fmt.Sprintf("error reading %s: %v", name, err)}
	}

	body := uploadRequest{
		LocalFilename: filepath.Base(name),
		Data:          base64.StdEncoding.EncodeToString(raw),
	}

	var resp uploadResponse
	if err := c.call(ctx, op, http.MethodPost, fmt.Sprintf("/image/%d", userID), nil, body, &resp); err != nil {
		return 0, err
	}
	return resp.AssetID, nil
}

// DownloadImage downloads the image for assetID and writes it to
// localFilename, overwriting any existing file. An empty localFilename
// falls back to the name recorded when the image was uploaded. Returns
// the name the image was written under.
func (c *Client) DownloadImage(ctx context.Context, assetID int64, localFilename string) (string, error) {
	const op = "download image"

	var resp downloadResponse
	if err := c.call(ctx, op, http.MethodGet, fmt.Sprintf("/image/%d", assetID), nil, nil, &resp); err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data)
	if err != nil {
		return "", &ServerError{Op: op, StatusCode: http.StatusOK, Message: "invalid base64 image data"}
	}

	name := localFilename
	if name == "" {
		name = resp.LocalFilename
	}
	if name == "" {
		return "", &ServerError{Op: op, StatusCode: http.StatusOK, Message: "no local filename in response"}
	}

	if err := os.WriteFile(name, raw, 0o644); err != nil {
		return "", fmt.Errorf("%s: error writing %s: %w", op, name, err)
	}
	return name, nil
}

// ImageLabels returns the labels recognized in the image, ordered by
// label. An unknown assetID is the caller's fault (ClientError).
func (c *Client) ImageLabels(ctx context.Context, assetID int64) ([]Label, error) {
	query := url.Values{"assetid": []string{strconv.FormatInt(assetID, 10)}}

	var resp labelsResponse
	if err := c.call(ctx, "image labels", http.MethodGet, "/image_labels", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ImagesWithLabel searches case-insensitively for images carrying the
// given label, partial matches included. Results are ordered by
// assetid, then by label within the same asset.
func (c *Client) ImagesWithLabel(ctx context.Context, label string) ([]ImageLabel, error) {
	query := url.Values{"label": []string{label}}

	var resp imageLabelsResponse
	if err := c.call(ctx, "images with label", http.MethodGet, "/images_with_label", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeleteImages removes every image and its labels from the database
// and then from the bucket. The server commits the database deletion
// before touching the bucket: an interruption can leave orphaned
// bucket objects, never a cleared database with objects still
// referenced. Orphans are harmless since asset names are unique.
func (c *Client) DeleteImages(ctx context.Context) error {
	return c.call(ctx, "delete images", http.MethodDelete, "/images", nil, nil, nil)
}

// call runs one operation through the retry policy. Only transport
// failures are retried; a response the server actually produced is
// classified once and returned as final.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	attempt := 0
	err := retry.Do(ctx, c.policy, IsRetryable, func(ctx context.Context) error {
		attempt++
		err := c.once(ctx, op, method, path, query, body, out)
		if err != nil && IsRetryable(err) {
			c.logger.Debugw("transient failure",
				"op", op,
				"attempt", attempt,
				"error", err,
			)
		}
		return err
	})
	if err != nil {
		c.logger.Errorw("operation failed", "op", op, "error", err)
	}
	return err
}

func (c *Client) once(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: error encoding request body: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: error building request: %w", op, err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode == http.StatusOK {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return &ServerError{Op: op, StatusCode: resp.StatusCode, Message: invalidJSONMessage}
		}
		return nil
	}

	// Every error response carries {"message": ...}; a body that does
	// not parse is an invalid-response failure in its own right.
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err != nil || er.Message == "" {
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Message: invalidJSONMessage}
	}

	if resp.StatusCode == http.StatusBadRequest {
		return &ClientError{Op: op, StatusCode: resp.StatusCode, Message: er.Message}
	}
	return &ServerError{Op: op, StatusCode: resp.StatusCode, Message: er.Message}
}
