package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Slack Web API root.
	DefaultBaseURL = "https://slack.com/api"

	defaultHTTPTimeout = 15 * time.Second
)

// APIError is a transport-level "not ok" result from the Web API.
type APIError struct {
	Method string
	Reason string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack api %s: %s", e.Method, e.Reason)
}

// Client calls the Slack Web API with a bot token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

type Option func(*Client)

// WithBaseURL points the client at a different API root (tests).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:    DefaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	URL   string `json:"url"`
}

// RTMConnect performs the rtm.connect handshake and returns the websocket
// URL to dial for the event stream.
func (c *Client) RTMConnect(ctx context.Context) (string, error) {
	resp, err := c.call(ctx, "rtm.connect", url.Values{})
	if err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", &APIError{Method: "rtm.connect", Reason: "response carried no websocket url"}
	}
	return resp.URL, nil
}

// PostMessage posts text to a channel as the named bot identity.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) error {
	form := url.Values{}
	form.Set("channel", channelID)
	form.Set("text", text)
	form.Set("as_user", "true")

	_, err := c.call(ctx, "chat.postMessage", form)
	return err
}

func (c *Client) call(ctx context.Context, method string, form url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	slog.DebugContext(ctx, "Slack api call", "method", method, "status", resp.StatusCode, "body", string(body))

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !out.OK {
		reason := out.Error
		if reason == "" {
			reason = "unknown error"
		}
		return nil, &APIError{Method: method, Reason: reason}
	}
	return &out, nil
}
