package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogctl/internal/shared"
	"golang.org/x/time/rate"
)

const refreshCookieName = "refresh_token"

// TokenStore is the durable credential store consulted on every outbound request.
type TokenStore interface {
	// AccessToken returns the current access token, or false when no
	// non-expired token is stored.
	AccessToken() (string, bool)

	// RefreshToken returns the stored refresh token, or false when absent.
	RefreshToken() (string, bool)

	// SetAccessToken replaces the stored access token after a refresh.
	SetAccessToken(token string) error
}

// Client performs HTTP calls against the catalog backend's base URL, with
// every call decorated by the stored bearer credential.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	limiter    *rate.Limiter
	refresher  *refresher
	authFailed func()
	logger     *log.Logger
}

// Options contains configuration for creating a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenStore
	RateLimit  float64 // requests per second; zero disables limiting
	Logger     *log.Logger
}

// New creates a Client for the catalog backend.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080/api"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		limiter:    limiter,
		refresher:  &refresher{},
		logger:     opts.Logger,
	}
}

// HandleAuthFailure registers fn to run when a token refresh fails. The
// session store wires its logout here so a dead session is observable
// regardless of which request triggered the refresh.
func (c *Client) HandleAuthFailure(fn func()) {
	c.authFailed = fn
}

// Get performs a GET request and unmarshals the envelope payload into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs an HTTP call against the backend. Transport failures and
// logical envelope failures propagate unchanged; a 401 triggers one
// refresh-and-retry cycle before becoming terminal.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, retried bool) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// A request that already went through a refresh cycle never
		// re-enters it: the second 401 is terminal.
		if retried {
			return fmt.Errorf("%w: request rejected after credential refresh", shared.ErrNotAuthenticated)
		}

		if err := c.waitForRefresh(ctx); err != nil {
			return err
		}

		return c.do(ctx, method, path, body, out, true)
	}

	return decodeEnvelope(respBody, resp.StatusCode, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := marshalBody(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		if token, ok := c.tokens.AccessToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// waitForRefresh joins the current refresh cycle, becoming its owner when no
// refresh is in flight. Returns nil once refreshed credentials are available.
func (c *Client) waitForRefresh(ctx context.Context) error {
	done := make(chan error, 1)
	if owner := c.refresher.begin(func(err error) { done <- err }); owner {
		err := c.refreshCredentials(ctx)
		if err != nil {
			c.logger.Warn("token refresh failed, forcing logout", "err", err)
			if c.authFailed != nil {
				c.authFailed()
			}
		}
		c.refresher.settle(err)
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// refreshCredentials exchanges the stored refresh token for a new access
// token. Called only by the refresh cycle's owner; never retried internally.
func (c *Client) refreshCredentials(ctx context.Context) error {
	if c.tokens == nil {
		return shared.ErrNoRefreshToken
	}

	refresh, ok := c.tokens.RefreshToken()
	if !ok {
		return shared.ErrNoRefreshToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", nil)
	if err != nil {
		return fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refresh})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("refresh rejected: status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := decodeEnvelope(body, resp.StatusCode, &payload); err != nil {
		return err
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("refresh response missing access token")
	}

	if err := c.tokens.SetAccessToken(payload.AccessToken); err != nil {
		return fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	c.logger.Debug("access token refreshed")
	return nil
}

func marshalBody(body any) ([]byte, error) {
	if raw, ok := body.([]byte); ok {
		return raw, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}
