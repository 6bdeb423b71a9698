// Package api implements the HTTP client for the Onimo chat service. Every
// call decodes the JSON body regardless of status code and maps non-2xx
// responses to *Error carrying the body's message field.
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

	"go.uber.org/zap"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/auth"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/chat"
)

// Client talks to the chat service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds a client for the given base URL, e.g.
// "http://localhost:5000/api".
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// envelope is the common shape of service responses; concrete fields are
// decoded separately by each call.
type envelope struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, emailOrPhone, password string) (string, error) {
	var out struct {
		envelope
		Token string `json:"token"`
	}
	payload := map[string]string{"emailOrPhone": emailOrPhone, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", payload, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Register creates an unverified account and returns the assigned user id.
func (c *Client) Register(ctx context.Context, name, email, phone, password string) (string, error) {
	var out struct {
		envelope
		UserID string `json:"userId"`
	}
	payload := map[string]string{"name": name, "email": email, "phone": phone, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", payload, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

// GoogleLogin exchanges an identity-provider token for a bearer token.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (string, error) {
	var out struct {
		envelope
		Token string `json:"token"`
	}
	payload := map[string]string{"id_token": idToken}
	if err := c.do(ctx, http.MethodPost, "/auth/google-login", "", payload, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// VerifyEmail confirms a registration code and returns a bearer token.
func (c *Client) VerifyEmail(ctx context.Context, userID, code string) (string, error) {
	var out struct {
		envelope
		Token string `json:"token"`
	}
	payload := map[string]string{"userId": userID, "code": code}
	if err := c.do(ctx, http.MethodPost, "/auth/confirm-email", "", payload, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// ForgotPassword asks the service to dispatch a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	var out envelope
	payload := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", "", payload, &out)
}

// ResetPassword sets a new password using a previously dispatched code.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	var out envelope
	payload := map[string]string{"email": email, "code": code, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", "", payload, &out)
}

// Me resolves a bearer token to the user record it authorizes.
func (c *Client) Me(ctx context.Context, token string) (*auth.User, error) {
	var out auth.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListExchanges fetches all exchanges for the token's identity, in the
// order the service returns them (newest first).
func (c *Client) ListExchanges(ctx context.Context, token string) ([]chat.Exchange, error) {
	var out []chat.Exchange
	if err := c.do(ctx, http.MethodGet, "/chat", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitMessage sends one message and returns the created exchange.
func (c *Client) SubmitMessage(ctx context.Context, token, message string) (*chat.Exchange, error) {
	var out chat.Exchange
	payload := map[string]string{"message": message}
	if err := c.do(ctx, http.MethodPost, "/chat", token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one request. A non-2xx status yields *Error with the body's
// message; a network or decode failure yields a wrapped transport error.
func (c *Client) do(ctx context.Context, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		// Best effort: the body may not be JSON at all.
		_ = json.Unmarshal(raw, &env)
		c.log.Info("request rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", env.Message))
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
