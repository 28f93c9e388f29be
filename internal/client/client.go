// Package client provides a REST client for the reeltalk server, used by
// the CLI to drive a chat session from the terminal.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client talks to the reeltalk HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client. If baseURL is empty, uses the
// REELTALK_SERVER_URL env var or defaults to localhost:8000.
// Timeout can be configured via REELTALK_CLIENT_TIMEOUT (default 5m, since
// answers wait on LLM inference).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("REELTALK_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	timeout := 5 * time.Minute
	if t := os.Getenv("REELTALK_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SessionInfo is the create-session response.
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResult is the send-message response.
type MessageResult struct {
	MessageID         string    `json:"message_id"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	Timestamp         time.Time `json:"timestamp"`
}

// CreateSession starts a new chat session.
func (c *Client) CreateSession(ctx context.Context) (SessionInfo, error) {
	var info SessionInfo
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions", nil, http.StatusCreated, &info)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("create session: %w", err)
	}
	return info, nil
}

// SendMessage posts a message to a session and returns the assistant's
// answer.
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (MessageResult, error) {
	payload := map[string]string{"message": message}

	var result MessageResult
	path := fmt.Sprintf("/api/v1/sessions/%s/messages", sessionID)
	err := c.do(ctx, http.MethodPost, path, payload, http.StatusOK, &result)
	if err != nil {
		return MessageResult{}, fmt.Errorf("send message: %w", err)
	}
	return result, nil
}

// do executes one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, payload any, wantStatus int, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		detail := readDetail(resp.Body)
		return fmt.Errorf("unexpected status %s: %s", resp.Status, detail)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// readDetail extracts the server's error detail, falling back to the raw
// body.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "(no detail)"
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
		return payload.Detail
	}
	return string(data)
}
