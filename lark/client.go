// Package lark provides a client for the Lark (Feishu) Open API and
// document loaders that walk docs, wiki nodes and wiki spaces.
package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/rageval"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Base URLs of the two Open API deployments.
const (
	DefaultBaseURL = "https://open.larksuite.com"
	FeishuBaseURL  = "https://open.feishu.cn"
)

// DefaultTimeout is the default timeout for API requests.
const DefaultTimeout = 30 * time.Second

// tokenRefreshMargin renews the tenant token this long before it expires.
const tokenRefreshMargin = 5 * time.Minute

const tenantTokenPath = "/open-apis/auth/v3/tenant_access_token/internal"

// APIError is returned when the Open API answers with a non-zero code.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lark api error %d: %s", e.Code, e.Msg)
}

// Client calls the Lark Open API with a self-managed tenant access token.
// It is safe for concurrent use.
type Client struct {
	baseURL   string
	appID     string
	appSecret string
	client    *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	now       func() time.Time

	group     singleflight.Group
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different deployment, e.g. FeishuBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit caps outgoing requests per second. Zero or negative
// means unlimited, which is the default.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a Client for a self-built app.
func NewClient(appID, appSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		appID:     appID,
		appSecret: appSecret,
		timeout:   DefaultTimeout,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// tenantAccessToken returns a cached token or fetches a new one.
// Concurrent callers share a single fetch.
func (c *Client) tenantAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && c.now().Before(c.expiresAt) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The shared fetch outlives any one caller's cancellation; each caller
	// still stops waiting when its own ctx is done.
	ch := c.group.DoChan("tenant_access_token", func() (any, error) {
		return c.fetchTenantAccessToken(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) fetchTenantAccessToken(ctx context.Context) (string, error) {
	body := map[string]string{"app_id": c.appID, "app_secret": c.appSecret}

	var resp struct {
		Code              int    `json:"code"`
		Msg               string `json:"msg"`
		TenantAccessToken string `json:"tenant_access_token"`
		Expire            int    `json:"expire"`
	}
	status, raw, err := c.send(ctx, http.MethodPost, tenantTokenPath, nil, body, "")
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", decodeError(status, tenantTokenPath, err)
	}
	if resp.Code != 0 {
		return "", &APIError{Code: resp.Code, Msg: resp.Msg}
	}
	if resp.TenantAccessToken == "" {
		return "", rageval.Errorf(rageval.EREMOTE, "tenant access token missing from response")
	}

	expiresIn := time.Duration(resp.Expire)*time.Second - tokenRefreshMargin

	c.mu.Lock()
	c.token = resp.TenantAccessToken
	c.expiresAt = c.now().Add(expiresIn)
	c.mu.Unlock()

	return resp.TenantAccessToken, nil
}

// call performs an authenticated request and decodes the data field of
// the response envelope into data.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, data any) error {
	token, err := c.tenantAccessToken(ctx)
	if err != nil {
		return err
	}

	status, raw, err := c.send(ctx, method, path, query, nil, token)
	if err != nil {
		return err
	}

	var env struct {
		Code int             `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return decodeError(status, path, err)
	}
	if env.Code != 0 {
		return &APIError{Code: env.Code, Msg: env.Msg}
	}
	if status < 200 || status > 299 {
		return rageval.Errorf(rageval.EUNAVAILABLE, "HTTP %d for %s", status, path)
	}
	if data == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, data); err != nil {
		return rageval.Errorf(rageval.EREMOTE, "failed to decode %s data: %v", path, err)
	}
	return nil
}

// send issues one HTTP request and returns the status code and body.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, in any, token string) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, rageval.Errorf(rageval.EUNAVAILABLE, "request to %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, rageval.Errorf(rageval.EUNAVAILABLE, "reading %s response: %v", path, err)
	}
	return resp.StatusCode, raw, nil
}

func decodeError(status int, path string, err error) error {
	if status < 200 || status > 299 {
		return rageval.Errorf(rageval.EUNAVAILABLE, "HTTP %d for %s", status, path)
	}
	return rageval.Errorf(rageval.EREMOTE, "failed to decode %s response: %v", path, err)
}

// opError prefixes err with the failed operation, keeping the remote
// message visible through rageval.ErrorMessage.
func opError(op string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return rageval.Errorf(rageval.EREMOTE, "%s: %s", op, apiErr.Msg)
	}
	var e *rageval.Error
	if errors.As(err, &e) {
		return rageval.Errorf(e.Code, "%s: %s", op, e.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}
