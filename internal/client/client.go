// Package client is the focusos API client used by the terminal UI. Every
// call goes through Client.do, which attaches the bearer token and turns error
// responses into *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sadopc/focusos/internal/stats"
	"github.com/sadopc/focusos/internal/store"
)

const defaultMessage = "API request failed"

// APIError is a non-2xx response from the server.
type APIError struct {
	Status          int
	Message         string
	ActiveSessionID int64
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw, err = io.ReadAll(resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: defaultMessage}
	var body struct {
		Error           string `json:"error"`
		ActiveSessionID int64  `json:"active_session_id"`
	}
	if json.NewDecoder(resp.Body).Decode(&body) == nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		}
		apiErr.ActiveSessionID = body.ActiveSessionID
	}
	return apiErr
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Tasks

func (c *Client) Tasks(ctx context.Context) ([]store.Task, error) {
	var tasks []store.Task
	err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, title string) (*store.Task, error) {
	var t store.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", map[string]string{"title": title}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) ToggleTask(ctx context.Context, id int64) (*store.Task, error) {
	var t store.Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d", id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CompleteTask(ctx context.Context, id int64) (*store.Task, error) {
	var t store.Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d/complete", id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// Sessions

func (c *Client) StartSession(ctx context.Context, taskID *int64) (*store.FocusSession, error) {
	var s store.FocusSession
	if err := c.do(ctx, http.MethodPost, "/sessions/start", map[string]*int64{"task_id": taskID}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ActiveSession returns nil when no session is open.
func (c *Client) ActiveSession(ctx context.Context) (*store.FocusSession, error) {
	var body struct {
		Active  bool                `json:"active"`
		Session *store.FocusSession `json:"session"`
	}
	if err := c.do(ctx, http.MethodGet, "/sessions/active", nil, &body); err != nil {
		return nil, err
	}
	if !body.Active {
		return nil, nil
	}
	return body.Session, nil
}

func (c *Client) EndSession(ctx context.Context) (*store.FocusSession, error) {
	var s store.FocusSession
	if err := c.do(ctx, http.MethodPost, "/sessions/end", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Reflect(ctx context.Context, clarity store.Clarity, note string) (*store.FocusSession, error) {
	body := map[string]string{"clarity": string(clarity), "note": note}
	var s store.FocusSession
	if err := c.do(ctx, http.MethodPost, "/sessions/reflect", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) RecentSessions(ctx context.Context) ([]stats.RecentSession, error) {
	var recent []stats.RecentSession
	err := c.do(ctx, http.MethodGet, "/sessions/recent", nil, &recent)
	return recent, err
}

// Analytics

func (c *Client) Summary(ctx context.Context) (*store.Summary, error) {
	var s store.Summary
	if err := c.do(ctx, http.MethodGet, "/analytics/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Daily(ctx context.Context) (*store.DailyTotals, error) {
	var d store.DailyTotals
	if err := c.do(ctx, http.MethodGet, "/analytics/daily", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) Streak(ctx context.Context) (int, error) {
	var body struct {
		Streak int `json:"streak"`
	}
	err := c.do(ctx, http.MethodGet, "/analytics/streak", nil, &body)
	return body.Streak, err
}

func (c *Client) Weekly(ctx context.Context) ([]stats.DayMinutes, error) {
	var days []stats.DayMinutes
	err := c.do(ctx, http.MethodGet, "/analytics/weekly", nil, &days)
	return days, err
}

func (c *Client) Clarity(ctx context.Context) ([]stats.DayClarity, error) {
	var days []stats.DayClarity
	err := c.do(ctx, http.MethodGet, "/analytics/clarity", nil, &days)
	return days, err
}

// Profile & settings

// Profile mirrors GET /me.
type Profile struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateName(ctx context.Context, name string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodPatch, "/me", map[string]string{"name": name}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Settings(ctx context.Context) (*store.Settings, error) {
	var s store.Settings
	if err := c.do(ctx, http.MethodGet, "/settings", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateSettings(ctx context.Context, patch store.SettingsPatch) (*store.Settings, error) {
	var s store.Settings
	if err := c.do(ctx, http.MethodPatch, "/settings", patch, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Export returns the raw export document in the given format.
func (c *Client) Export(ctx context.Context, format string) ([]byte, error) {
	var data []byte
	path := "/export?format=" + url.QueryEscape(format)
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}
