// Package client is the application-side counterpart of the API: a thin HTTP
// client plus the state controller that drives the calendar view.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"habitStopperAPI/internal/habitlog"
	"habitStopperAPI/internal/user"
)

// ErrLoginRequired is returned when the server rejects a call for lack of a
// valid identity, or when an operation needs an authenticated controller.
var ErrLoginRequired = errors.New("login required")

// API is the capability the controller depends on. Any transport able to
// resolve an identity, list logs and upsert a day's status satisfies it.
type API interface {
	CurrentUser(ctx context.Context) (*user.User, error)
	ListLogs(ctx context.Context) ([]*habitlog.DailyLog, error)
	SetStatus(ctx context.Context, date string, status habitlog.Status) (*habitlog.DailyLog, error)
}

// HTTPClient talks to the REST surface with a Bearer token.
type HTTPClient struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// CurrentUser resolves the token to a user, or nil when the server answers
// with an empty identity.
func (c *HTTPClient) CurrentUser(ctx context.Context) (*user.User, error) {
	var u *user.User
	if err := c.do(ctx, http.MethodGet, "/api/current_user", nil, &u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *HTTPClient) ListLogs(ctx context.Context) ([]*habitlog.DailyLog, error) {
	var logs []*habitlog.DailyLog
	if err := c.do(ctx, http.MethodGet, "/api/logs", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *HTTPClient) SetStatus(ctx context.Context, date string, status habitlog.Status) (*habitlog.DailyLog, error) {
	req := habitlog.SetStatusRequest{Date: date, Status: status}
	entry := &habitlog.DailyLog{}
	if err := c.do(ctx, http.MethodPost, "/api/log", req, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrLoginRequired
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
