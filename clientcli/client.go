package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against a cloud server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	// Apply defaults
	cfg = cfg.WithDefaults()

	// Normalize endpoint URL (remove trailing slash)
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")

	c := &Client{
		config: &Config{
			Endpoint: endpoint,
			Token:    cfg.Token,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Token returns the session token the client currently holds. It changes
// after Login and Logout, so callers persisting profiles should read it back.
func (c *Client) Token() string {
	return c.config.Token
}

// newRequest builds a request with the session token attached.
func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.config.Token != "" {
		req.Header.Set("auth-token", c.config.Token)
	}
	return req, nil
}

// fileURL builds the /file URL for the given remote name.
func (c *Client) fileURL(name string) string {
	return c.config.Endpoint + "/file?" + url.Values{"filename": {name}}.Encode()
}

// Login exchanges credentials for a session token. The token is stored on
// the client for subsequent calls and returned so callers can persist it.
func (c *Client) Login(ctx context.Context, login, password string) (string, error) {
	payload, err := json.Marshal(struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}{login, password})
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.config.Endpoint+"/login", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", parseServerError(resp.StatusCode, body)
	}

	var tokenResp struct {
		Token string `json:"auth-token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if tokenResp.Token == "" {
		return "", errors.New("server returned no token")
	}

	c.config.Token = tokenResp.Token
	return tokenResp.Token, nil
}

// Logout invalidates the session token on the server and clears it from
// the client.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.config.ValidateWithAuth(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.config.Endpoint+"/logout", http.NoBody)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseServerError(resp.StatusCode, body)
	}

	c.config.Token = ""
	return nil
}

// Upload uploads file(s) to the server.
// For recursive uploads, walks a directory and preserves relative paths
// inside the remote names.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	if err := c.config.ValidateWithAuth(); err != nil {
		return nil, err
	}
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload: %w", ErrEmptyPath)
	}
	if opts.Recursive {
		return c.uploadRecursive(ctx, opts)
	}
	result, err := c.uploadSingle(ctx, opts.LocalPath, opts.RemoteName)
	if err != nil {
		return nil, err
	}
	return []UploadResult{result}, nil
}

// uploadRecursive walks a directory and uploads all files.
func (c *Client) uploadRecursive(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	info, err := os.Stat(opts.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("stat local path: %w", err)
	}

	if !info.IsDir() {
		// Not a directory, just upload single file
		result, uploadErr := c.uploadSingle(ctx, opts.LocalPath, opts.RemoteName)
		if uploadErr != nil {
			return nil, uploadErr
		}
		return []UploadResult{result}, nil
	}

	var results []UploadResult
	baseDir := opts.LocalPath
	remotePrefix := strings.TrimSuffix(opts.RemoteName, "/")

	walkErr := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, fileErr error) error {
		if fileErr != nil {
			return fileErr
		}

		// Check context cancellation
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		// Skip directories
		if d.IsDir() {
			return nil
		}

		// Calculate relative path
		relPath, relErr := filepath.Rel(baseDir, path)
		if relErr != nil {
			results = append(results, UploadResult{
				LocalPath: path,
				Err:       fmt.Errorf("calculate relative path: %w", relErr),
			})
			return nil
		}

		// Convert to forward slashes for the remote name
		remoteName := filepath.ToSlash(relPath)
		if remotePrefix != "" {
			remoteName = remotePrefix + "/" + remoteName
		}

		result, uploadErr := c.uploadSingle(ctx, path, remoteName)
		if uploadErr != nil {
			result = UploadResult{
				LocalPath:  path,
				RemoteName: remoteName,
				Err:        uploadErr,
			}
		}
		results = append(results, result)
		return nil
	})

	if walkErr != nil {
		return results, fmt.Errorf("walk directory: %w", walkErr)
	}

	return results, nil
}

// uploadSingle uploads a single file to the server.
func (c *Client) uploadSingle(ctx context.Context, localPath, remoteName string) (UploadResult, error) {
	file, err := os.Open(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return UploadResult{}, fmt.Errorf("stat file: %w", err)
	}

	if remoteName == "" {
		remoteName = filepath.Base(localPath)
	}

	// Stream the multipart body so large files never sit in memory whole.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, formErr := mw.CreateFormFile("file", remoteName)
		if formErr != nil {
			_ = pw.CloseWithError(formErr)
			return
		}
		if _, copyErr := io.Copy(part, file); copyErr != nil {
			_ = pw.CloseWithError(copyErr)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, c.fileURL(remoteName), pr)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return UploadResult{}, parseServerError(resp.StatusCode, body)
	}

	return UploadResult{
		LocalPath:  localPath,
		RemoteName: remoteName,
		Size:       info.Size(),
	}, nil
}

// Download downloads a file from the server.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser and must be closed by the caller.
// Otherwise, the content is written to the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if err := c.config.ValidateWithAuth(); err != nil {
		return nil, nil, err
	}
	if opts.RemoteName == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyFilename)
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.fileURL(opts.RemoteName), http.NoBody)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, parseServerError(resp.StatusCode, body)
	}

	result := &DownloadResult{
		RemoteName: opts.RemoteName,
		Size:       resp.ContentLength,
	}

	// If stdout requested, return the body for the caller to handle
	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	// Determine local path
	localPath := opts.LocalPath
	if localPath == "" {
		// Derive from remote name
		localPath = filepath.Base(opts.RemoteName)
	}
	result.LocalPath = localPath

	// Create parent directories if needed
	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	// Create the file
	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	// Copy content to file
	written, copyErr := io.Copy(file, resp.Body)
	_ = resp.Body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// Delete deletes one or more files from the server.
// Continues on error, collecting results for all names.
func (c *Client) Delete(ctx context.Context, opts DeleteOptions) ([]DeleteResult, error) {
	if err := c.config.ValidateWithAuth(); err != nil {
		return nil, err
	}
	if len(opts.Names) == 0 {
		return nil, ErrNoFilenames
	}

	results := make([]DeleteResult, 0, len(opts.Names))

	for _, name := range opts.Names {
		// Check context cancellation
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := c.deleteSingle(ctx, name)
		results = append(results, result)
	}

	return results, nil
}

// deleteSingle deletes a single file from the server.
func (c *Client) deleteSingle(ctx context.Context, name string) DeleteResult {
	req, err := c.newRequest(ctx, http.MethodDelete, c.fileURL(name), http.NoBody)
	if err != nil {
		return DeleteResult{
			Name:    name,
			Deleted: false,
			Err:     err,
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return DeleteResult{
			Name:    name,
			Deleted: false,
			Err:     fmt.Errorf("do request: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return DeleteResult{
			Name:    name,
			Deleted: true,
		}
	}

	body, _ := io.ReadAll(resp.Body)
	return DeleteResult{
		Name:    name,
		Deleted: false,
		Err:     parseServerError(resp.StatusCode, body),
	}
}

// HasDeleteErrors returns true if any delete operation failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Rename changes the name a stored file is listed under.
func (c *Client) Rename(ctx context.Context, opts RenameOptions) error {
	if err := c.config.ValidateWithAuth(); err != nil {
		return err
	}
	if opts.OldName == "" || opts.NewName == "" {
		return fmt.Errorf("rename: %w", ErrEmptyFilename)
	}

	payload, err := json.Marshal(struct {
		Filename string `json:"filename"`
	}{opts.NewName})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, c.fileURL(opts.OldName), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseServerError(resp.StatusCode, body)
	}

	return nil
}

// List lists the caller's files on the server.
func (c *Client) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if err := c.config.ValidateWithAuth(); err != nil {
		return nil, err
	}

	listURL := c.config.Endpoint + "/list"
	if opts.Limit > 0 {
		listURL += "?" + url.Values{"limit": {strconv.Itoa(opts.Limit)}}.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, listURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseServerError(resp.StatusCode, body)
	}

	var items []FileInfo
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &ListResult{Items: items}, nil
}

// parseServerError extracts the error message from a server response.
// The server reports failures as {"message": ..., "status": ...}.
func parseServerError(statusCode int, body []byte) error {
	var errResp struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{StatusCode: statusCode, Message: errResp.Message}
	}
	return &APIError{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Message
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// ErrUnauthorized is returned when the session token is missing, stale or
// invalid (401). Run 'cloud-cli login' to mint a fresh one.
var ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}
