// Package scoreclient talks to the Space Dodge score server.
//
// A Client carries at most one bearer token. Submit needs it; TopScores and
// WatchLeaderboard do not.
package scoreclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"spacedodge/game"
)

// Entry is one leaderboard row.
type Entry struct {
	ID         uint   `json:"id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scoreclient: %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient returns a client for the server at baseURL. A nil httpClient
// gets a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type authResponse struct {
	Token string `json:"token"`
}

// Register creates an account and keeps the returned token.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/api/auth/register", username, password)
}

// Login keeps the token for an existing account.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/api/auth/login", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) error {
	var resp authResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return errors.New("scoreclient: server returned no token")
	}
	c.SetToken(resp.Token)
	return nil
}

// Submit stores a score and returns the new record id. A missing or
// rejected token yields game.ErrUnauthenticated.
func (c *Client) Submit(ctx context.Context, score int, playerName string) (string, error) {
	var rec Entry
	body := map[string]interface{}{"score": score, "player_name": playerName}
	err := c.do(ctx, http.MethodPost, "/api/scores", body, &rec)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return "", game.ErrUnauthenticated
		}
		return "", err
	}
	return strconv.FormatUint(uint64(rec.ID), 10), nil
}

// TopScores returns the current leaderboard, best first.
func (c *Client) TopScores(ctx context.Context) ([]Entry, error) {
	entries := []Entry{}
	if err := c.do(ctx, http.MethodGet, "/api/scores/top", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("scoreclient: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("scoreclient: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("scoreclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("scoreclient: decode response: %w", err)
	}
	return nil
}

// websocketURL maps the http(s) base URL onto ws(s).
func (c *Client) websocketURL(path string) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}
