// Package navixy implements the service.Service interface over the Navixy fleet API.
package navixy

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
	"time"

	"golang.org/x/oauth2"

	"dockassign/internal/config"
	"dockassign/internal/logging"
	"dockassign/internal/service"
)

// API actions, relative to <base>/v2/.
const (
	actionTaskList   = "task/route/list"
	actionTaskAssign = "task/route/assign"
	actionUserAuth   = "user/auth"

	// maxResponseBytes caps how much of a response body is decoded.
	maxResponseBytes = 8 << 20
)

// Client implements service.Service using the Navixy HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
	timeout time.Duration
	log     *logging.Logger
}

// New creates a Client from config.
// The session hash comes from the configured hash or the stored session;
// otherwise configured login/password are exchanged for a hash on first use.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	httpClient := &http.Client{}
	base := strings.TrimRight(cfg.Settings.API.BaseURL, "/")

	var tokens oauth2.TokenSource
	hash, err := cfg.SessionHash()
	switch {
	case err == nil:
		tokens = StaticSession(hash)
	case errors.Is(err, config.ErrNoSession) && cfg.HasCredentials():
		tokens = LoginSession(httpClient, base, cfg.Settings.Session.Login, cfg.Settings.Session.Password)
	default:
		return nil, err
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		tokens:  tokens,
		timeout: cfg.Settings.API.Timeout,
		log:     cfg.Logger(),
	}, nil
}

// NewWithHTTPClient creates a client against baseURL with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, baseURL string, tokens oauth2.TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     logging.Nop(),
	}
}

// apiStatus is the error detail attached to unsuccessful responses.
type apiStatus struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

type taskJSON struct {
	ID        int    `json:"id"`
	Label     string `json:"label"`
	Status    string `json:"status"`
	TrackerID int    `json:"tracker_id"`
}

type listResponse struct {
	Success bool       `json:"success"`
	List    []taskJSON `json:"list"`
	Status  *apiStatus `json:"status,omitempty"`
}

type listRequest struct {
	Hash     string   `json:"hash"`
	Trackers []int    `json:"trackers,omitempty"`
	From     string   `json:"from,omitempty"`
	Statuses []string `json:"statuses,omitempty"`
}

type assignRequest struct {
	RouteID   int `json:"route_id"`
	TrackerID int `json:"tracker_id"`
}

type assignResponse struct {
	Success bool       `json:"success"`
	Status  *apiStatus `json:"status,omitempty"`
}

// ListTasks returns route tasks in API order.
// A zero filter issues GET task/route/list with the hash in the query;
// otherwise POST task/route/list carries the hash and filter in the body.
func (c *Client) ListTasks(ctx context.Context, filter service.ListFilter) ([]service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	hash, err := c.hash(ctx)
	if err != nil {
		return nil, err
	}

	var req *http.Request
	if filter.IsZero() {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(actionTaskList, hash), nil)
	} else {
		body := listRequest{
			Hash:     hash,
			Trackers: filter.Trackers,
			Statuses: filter.Statuses,
		}
		if !filter.From.IsZero() {
			body.From = filter.From.In(time.Local).Format(service.TimeLayout)
		}
		req, err = newJSONRequest(ctx, c.endpoint(actionTaskList, ""), body)
	}
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := c.do(req, actionTaskList, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, apiError(actionTaskList, resp.Status)
	}

	result := make([]service.Task, 0, len(resp.List))
	for _, t := range resp.List {
		result = append(result, service.Task{
			ID:        t.ID,
			Label:     t.Label,
			Status:    t.Status,
			TrackerID: t.TrackerID,
		})
	}
	return result, nil
}

// AssignTask assigns a route task to a tracker.
func (c *Client) AssignTask(ctx context.Context, taskID, trackerID int) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	hash, err := c.hash(ctx)
	if err != nil {
		return err
	}

	req, err := newJSONRequest(ctx, c.endpoint(actionTaskAssign, hash), assignRequest{
		RouteID:   taskID,
		TrackerID: trackerID,
	})
	if err != nil {
		return err
	}

	var resp assignResponse
	if err := c.do(req, actionTaskAssign, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return apiError(actionTaskAssign, resp.Status)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

func (c *Client) hash(ctx context.Context) (string, error) {
	var (
		tok *oauth2.Token
		err error
	)
	if ts, ok := c.tokens.(contextTokenSource); ok {
		tok, err = ts.TokenContext(ctx)
	} else {
		tok, err = c.tokens.Token()
	}
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// endpoint builds <base>/v2/<action>, adding ?hash= when hash is non-empty.
func (c *Client) endpoint(action, hash string) string {
	u := c.baseURL + "/v2/" + action
	if hash != "" {
		u += "?" + url.Values{"hash": {hash}}.Encode()
	}
	return u
}

func newJSONRequest(ctx context.Context, endpoint string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends req and decodes the JSON body into dst.
// The API reports failures in the body, so non-2xx bodies are decoded too.
func (c *Client) do(req *http.Request, action string, dst any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	c.log.Debug("api call", "action", action, "method", req.Method, "status", resp.StatusCode, "elapsed", time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return wrapError(err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("malformed %s response (HTTP %d): %w", action, resp.StatusCode, err)
	}
	return nil
}

func apiError(action string, st *apiStatus) error {
	e := &service.APIError{Op: action}
	if st != nil {
		e.Code = st.Code
		e.Description = st.Description
	}
	return e
}

// wrapError wraps transport errors with user-friendly messages.
// URLs are dropped because they carry the session hash.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}
