package linebot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIEndpoint     = "https://api.line.me"
	defaultContentEndpoint = "https://api-data.line.me"
)

// Profile is a chat user's public profile
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

// TextMessage is an outgoing text message
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextMessage builds an outgoing text message
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// APIError is a non-2xx response from the messaging API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("messaging API returned %d: %s", e.StatusCode, e.Body)
}

// Client calls the LINE Messaging API over REST.
type Client struct {
	channelToken    string
	httpClient      *http.Client
	apiEndpoint     string
	contentEndpoint string
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoints overrides the API endpoints, used for tests
func WithEndpoints(api, content string) ClientOption {
	return func(c *Client) {
		c.apiEndpoint = api
		c.contentEndpoint = content
	}
}

// NewClient creates a messaging API client
func NewClient(channelToken string, opts ...ClientOption) *Client {
	c := &Client{
		channelToken:    channelToken,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		apiEndpoint:     defaultAPIEndpoint,
		contentEndpoint: defaultContentEndpoint,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ReplyMessage sends reply messages for a webhook event. A reply token is
// single-use and expires shortly after the event, so failures here are not
// retried.
func (c *Client) ReplyMessage(ctx context.Context, replyToken string, messages ...TextMessage) error {
	payload := struct {
		ReplyToken string        `json:"replyToken"`
		Messages   []TextMessage `json:"messages"`
	}{
		ReplyToken: replyToken,
		Messages:   messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiEndpoint+"/v2/bot/message/reply", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reply request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}
	return nil
}

// GetProfile fetches a user's public profile
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiEndpoint+"/v2/bot/profile/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

// GetMessageContent streams the binary content of a media message. The
// caller owns the returned reader and must close it. The content type comes
// from the response header.
func (c *Client) GetMessageContent(ctx context.Context, messageID string) (io.ReadCloser, string, error) {
	url := fmt.Sprintf("%s/v2/bot/message/%s/content", c.contentEndpoint, messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build content request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("content request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, "", readAPIError(resp)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
}
