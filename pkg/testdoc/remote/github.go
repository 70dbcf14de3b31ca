// Package remote persists the workbook through the GitHub contents API.
//
// The blob SHA returned by a fetch is the version token for the following
// push: GitHub rejects a push whose SHA no longer matches the file, which
// surfaces here as an error matching ErrConflict.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Defaults for a Client.
const (
	DefaultBaseURL = "https://api.github.com"
	DefaultBranch  = "main"
	DefaultTimeout = 30 * time.Second
)

// maxErrorBody bounds how much of a failed response is kept in a StatusError.
const maxErrorBody = 4 << 10

// ErrConflict indicates the remote file changed after it was fetched.
var ErrConflict = errors.New("remote file changed since fetch")

// StatusError is a non-success response from the contents API.
type StatusError struct {
	Op         string // "fetch", "download" or "push"
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is reports stale-SHA rejections as ErrConflict.
func (e *StatusError) Is(target error) bool {
	return target == ErrConflict && isConflictStatus(e.StatusCode)
}

func isConflictStatus(code int) bool {
	return code == http.StatusConflict || code == http.StatusPreconditionFailed || code == http.StatusUnprocessableEntity
}

// File is the remote workbook and its version token.
type File struct {
	SHA         string `json:"sha"`
	Path        string `json:"path"`
	Size        int    `json:"size"`
	DownloadURL string `json:"download_url,omitempty"`
	Content     []byte `json:"-"`
}

// PushResult identifies the blob and commit created by a push.
type PushResult struct {
	ContentSHA string `json:"content_sha"`
	CommitSHA  string `json:"commit_sha"`
}

// Client reads and writes one file in one repository branch.
type Client struct {
	baseURL string
	owner   string
	repo    string
	path    string
	branch  string
	timeout time.Duration
	base    *http.Client
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise host or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithBranch sets the target branch.
func WithBranch(branch string) Option {
	return func(c *Client) {
		if branch != "" {
			c.branch = branch
		}
	}
}

// WithTimeout bounds each API call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient sets the transport the bearer-token client wraps.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.base = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for owner/repo/path authenticated with a bearer token.
// An empty token sends unauthenticated requests.
func New(owner, repo, path, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		owner:   owner,
		repo:    repo,
		path:    strings.TrimLeft(path, "/"),
		branch:  DefaultBranch,
		timeout: DefaultTimeout,
		base:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = c.base
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)
		c.http = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
	}
	return c
}

// Branch returns the target branch.
func (c *Client) Branch() string {
	return c.branch
}

func (c *Client) contentsURL() string {
	segments := strings.Split(c.path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(c.owner), url.PathEscape(c.repo), strings.Join(segments, "/"))
}

type contentsResponse struct {
	SHA         string `json:"sha"`
	Path        string `json:"path"`
	Size        int    `json:"size"`
	Encoding    string `json:"encoding"`
	Content     string `json:"content"`
	DownloadURL string `json:"download_url"`
}

// Fetch downloads the file and its current blob SHA.
func (c *Client) Fetch(ctx context.Context) (*File, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	u := c.contentsURL() + "?ref=" + url.QueryEscape(c.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	var meta contentsResponse
	if err := c.do(req, "fetch", &meta, http.StatusOK); err != nil {
		return nil, err
	}

	file := &File{SHA: meta.SHA, Path: meta.Path, Size: meta.Size, DownloadURL: meta.DownloadURL}
	switch {
	case meta.Encoding == "base64" && meta.Content != "":
		// The API wraps base64 content at 60 columns.
		clean := strings.NewReplacer("\n", "", "\r", "").Replace(meta.Content)
		file.Content, err = base64.StdEncoding.DecodeString(clean)
		if err != nil {
			return nil, fmt.Errorf("fetch: decode content: %w", err)
		}
	case meta.DownloadURL != "":
		// Files over 1 MB come back without inline content.
		file.Content, err = c.download(ctx, meta.DownloadURL)
		if err != nil {
			return nil, err
		}
	}

	c.logger.Debug("fetched remote workbook",
		zap.String("path", c.path),
		zap.String("sha", file.SHA),
		zap.Int("bytes", len(file.Content)))
	return file, nil
}

func (c *Client) download(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("download", resp)
	}
	return io.ReadAll(resp.Body)
}

type pushRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type pushResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// Push uploads content as a new commit on the branch. sha must be the blob
// SHA the content was derived from; an empty sha creates the file.
func (c *Client) Push(ctx context.Context, content []byte, message, sha string) (*PushResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(pushRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
		Branch:  c.branch,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	var out pushResponse
	if err := c.do(req, "push", &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}

	c.logger.Info("pushed workbook",
		zap.String("path", c.path),
		zap.String("branch", c.branch),
		zap.String("sha", out.Content.SHA),
		zap.String("commit", out.Commit.SHA))
	return &PushResult{ContentSHA: out.Content.SHA, CommitSHA: out.Commit.SHA}, nil
}

func (c *Client) do(req *http.Request, op string, out interface{}, ok ...int) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	accepted := false
	for _, code := range ok {
		if resp.StatusCode == code {
			accepted = true
			break
		}
	}
	if !accepted {
		err := statusError(op, resp)
		c.logger.Warn("contents API request failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func statusError(op string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
