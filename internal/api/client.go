// Package api implements the widget's HTTP client for the chat backend:
// settings, message exchange, reset and cart calls. Every request carries the
// tenant API key; response shapes are validated here so the rest of the
// widget only sees typed values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shoplite/chatwidget/internal/model/chat"
)

// Client is a chat backend API client.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a client for the given base URL, e.g. "https://host/v1".
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// doRequest performs an HTTP request and decodes the JSON response into out.
func (c *Client) doRequest(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("backend error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("malformed response body: %w", err)
	}
	return nil
}

// Settings is the admin-configured widget behaviour. WelcomeText is empty
// when the admin has not set one; callers fall back to a built-in string.
type Settings struct {
	WelcomeText      string
	SuggestedQueries []string
}

// FetchSettings reads the current settings. Each call is independent; admin
// changes must be visible on the next panel open, so nothing is cached.
func (c *Client) FetchSettings(ctx context.Context) (Settings, error) {
	var wire struct {
		WelcomeText      string   `json:"welcome_text"`
		SuggestedQueries []string `json:"suggested_queries"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/settings", nil, &wire); err != nil {
		return Settings{}, err
	}
	return Settings{
		WelcomeText:      wire.WelcomeText,
		SuggestedQueries: wire.SuggestedQueries,
	}, nil
}

// ChatResponse is one exchange's worth of assistant output, already filtered
// down to the entries the widget renders.
type ChatResponse struct {
	ConversationID string
	Texts          []string
	Products       []chat.Product
}

// SendMessage posts one user message. conversationID may be empty on the
// first exchange; the backend then assigns one and returns it.
func (c *Client) SendMessage(ctx context.Context, conversationID, message, locale string) (ChatResponse, error) {
	payload := map[string]any{
		"conversation_id": orNil(conversationID),
		"message":         message,
		"locale":          locale,
	}

	var wire struct {
		ConversationID opaqueID `json:"conversation_id"`
		Messages       []struct {
			Type string `json:"type"`
			// Content stays raw until the type is known: future kinds may
			// carry structured content and must not break the decode.
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
		Products []struct {
			ID       opaqueID `json:"id"`
			Name     string   `json:"name"`
			ImageURL string   `json:"image_url"`
			Price    struct {
				Value    float64 `json:"value"`
				Currency string  `json:"currency"`
			} `json:"price"`
		} `json:"products"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/chat/message", payload, &wire); err != nil {
		return ChatResponse{}, err
	}

	resp := ChatResponse{ConversationID: string(wire.ConversationID)}
	for _, m := range wire.Messages {
		// Unknown message types are skipped for forward compatibility.
		if m.Type != "text" {
			continue
		}
		var text string
		if err := json.Unmarshal(m.Content, &text); err != nil {
			// A text entry with non-string content is equally unrenderable.
			continue
		}
		resp.Texts = append(resp.Texts, text)
	}
	for _, p := range wire.Products {
		resp.Products = append(resp.Products, chat.Product{
			ID:       string(p.ID),
			Name:     p.Name,
			Price:    p.Price.Value,
			Currency: p.Price.Currency,
			ImageURL: p.ImageURL,
		})
	}
	return resp, nil
}

// Reset closes the conversation server-side. Best-effort: callers clear local
// state whether or not this succeeds.
func (c *Client) Reset(ctx context.Context, conversationID string) error {
	payload := map[string]any{"conversation_id": orNil(conversationID)}
	return c.doRequest(ctx, http.MethodPost, "/chat/reset", payload, nil)
}

// AddToCart fires a single add-to-cart request. The backend owns cart state;
// nothing is tracked client-side.
func (c *Client) AddToCart(ctx context.Context, item chat.CartItem) error {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	payload := map[string]any{
		"conversation_id": orNil(item.ConversationID),
		"product_id":      item.ProductID,
		"quantity":        item.Quantity,
	}
	return c.doRequest(ctx, http.MethodPost, "/cart/items", payload, nil)
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
