package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
)

// Messenger delivers engine output to the chat platform. Implementations
// receive plain data payloads; all text and card formatting happens behind
// this boundary.
type Messenger interface {
	// SendCard posts an interactive card to the chat and returns the
	// platform's message id
	SendCard(ctx context.Context, chatID string, card interface{}) (string, error)
	// SendText posts a plain text message to the chat
	SendText(ctx context.Context, chatID, text string) error
	// ResolveName maps a platform member id to a display name
	ResolveName(ctx context.Context, userID string) (string, error)
}

// Client is the HTTP Messenger for the chat platform's open API
type Client struct {
	baseURL    string
	appID      string
	appSecret  string
	httpClient *http.Client
	tokens     *tokenCache
	logger     logrus.FieldLogger
}

// NewClient returns a Messenger talking to the platform API
func NewClient(baseURL, appID, appSecret string, logger logrus.FieldLogger) *Client {
	c := &Client{
		baseURL:    baseURL,
		appID:      appID,
		appSecret:  appSecret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}

	c.tokens = newTokenCache(quartz.NewReal(), c.fetchTenantToken)
	return c
}

// apiError is the platform's error shape; code 0 means success
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *apiError) ok() bool {
	return e.Code == 0
}

func (c *Client) fetchTenantToken(ctx context.Context) (string, time.Duration, error) {
	payload := map[string]string{
		"app_id":     c.appID,
		"app_secret": c.appSecret,
	}

	var response struct {
		apiError
		TenantAccessToken string `json:"tenant_access_token"`
		Expire            int    `json:"expire"`
	}

	if err := c.post(ctx, "/auth/v3/tenant_access_token/internal", "", payload, &response); err != nil {
		return "", 0, err
	}

	if !response.ok() {
		return "", 0, fmt.Errorf("token request failed: %d %s", response.Code, response.Msg)
	}

	c.logger.WithField("expire", response.Expire).Debug("refreshed tenant token")
	return response.TenantAccessToken, time.Duration(response.Expire) * time.Second, nil
}

// SendCard posts an interactive card to the chat
func (c *Client) SendCard(ctx context.Context, chatID string, card interface{}) (string, error) {
	content, err := json.Marshal(card)
	if err != nil {
		return "", err
	}

	return c.sendMessage(ctx, chatID, "interactive", string(content))
}

// SendText posts a plain text message to the chat
func (c *Client) SendText(ctx context.Context, chatID, text string) error {
	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	_, err = c.sendMessage(ctx, chatID, "text", string(content))
	return err
}

func (c *Client) sendMessage(ctx context.Context, chatID, msgType, content string) (string, error) {
	token, err := c.tokens.get(ctx)
	if err != nil {
		return "", err
	}

	payload := map[string]string{
		"receive_id": chatID,
		"msg_type":   msgType,
		"content":    content,
	}

	var response struct {
		apiError
		Data struct {
			MessageID string `json:"message_id"`
		} `json:"data"`
	}

	if err := c.post(ctx, "/im/v1/messages?receive_id_type=chat_id", token, payload, &response); err != nil {
		return "", err
	}

	if !response.ok() {
		return "", fmt.Errorf("send message failed: %d %s", response.Code, response.Msg)
	}

	return response.Data.MessageID, nil
}

// ResolveName maps a member id to a display name
func (c *Client) ResolveName(ctx context.Context, userID string) (string, error) {
	token, err := c.tokens.get(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contact/v3/users/"+userID+"?user_id_type=open_id", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var response struct {
		apiError
		Data struct {
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"data"`
	}

	if err := c.do(req, &response); err != nil {
		return "", err
	}

	if !response.ok() {
		return "", fmt.Errorf("resolve name failed: %d %s", response.Code, response.Msg)
	}

	return response.Data.User.Name, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload, response interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, response)
}

func (c *Client) do(req *http.Request, response interface{}) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode >= 500 {
		return fmt.Errorf("platform API returned %s", res.Status)
	}

	return json.NewDecoder(res.Body).Decode(response)
}
