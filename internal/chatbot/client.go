package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client relays user messages to the external generative-AI chatbot API.
// The relay is a plain proxy: the backend adds the API key, forwards the
// message, and returns the reply text verbatim.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient reads CHATBOT_API_URL and CHATBOT_API_KEY. An empty URL leaves
// the client unconfigured; the handler reports the feature unavailable.
func NewClient() *Client {
	return &Client{
		baseURL: strings.TrimSuffix(os.Getenv("CHATBOT_API_URL"), "/"),
		apiKey:  os.Getenv("CHATBOT_API_KEY"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured reports whether a relay endpoint was provided.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

type relayRequest struct {
	Message string `json:"message"`
}

type relayResponse struct {
	Reply string `json:"reply"`
}

// Ask forwards message to the chatbot API and returns the reply text.
func (c *Client) Ask(ctx context.Context, message string) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("chatbot API not configured")
	}

	body, err := json.Marshal(relayRequest{Message: message})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chatbot request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chatbot API returned %d: %s", resp.StatusCode, string(payload))
	}

	var out relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chatbot reply: %w", err)
	}
	return out.Reply, nil
}
