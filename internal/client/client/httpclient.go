package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// HTTPClient talks to the identity HTTP API. After a successful Login the
// session token is attached as a bearer token to every request.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) setToken(t string) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp struct {
		UserID string `json:"userId"`
	}

	if req.AvatarPath == "" {
		if err := c.doJSON(ctx, http.MethodPost, "/api/v1/users/register", req, &resp); err != nil {
			return "", err
		}
		return resp.UserID, nil
	}

	body, contentType, err := multipartRegister(req)
	if err != nil {
		return "", err
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/users/register", body, contentType, &resp); err != nil {
		return "", err
	}
	return resp.UserID, nil
}

func multipartRegister(req RegisterRequest) (io.Reader, string, error) {
	f, err := os.Open(req.AvatarPath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"fullName":    req.FullName,
		"email":       req.Email,
		"password":    req.Password,
		"role":        req.Role,
		"headline":    req.Headline,
		"companyName": req.CompanyName,
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	fw, err := mw.CreateFormFile("avatar", filepath.Base(req.AvatarPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/users/verify-otp", map[string]string{"email": email, "otp": otp}, nil)
}

func (c *HTTPClient) ResendOTP(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/users/resend-otp", map[string]string{"email": email}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	var s Session
	req := map[string]string{"email": email, "password": string(password)}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/users/login", req, &s); err != nil {
		return nil, err
	}
	c.setToken(s.Token)
	return &s, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*Principal, error) {
	if c.Token() == "" {
		return nil, ErrNotLoggedIn
	}
	var p Principal
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/current-user", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Logout drops the local token even when the server call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return ErrNotLoggedIn
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/users/logout", nil, nil)
	c.setToken("")
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/users/forgot-password", map[string]string{"email": email}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token string, password []byte) error {
	req := map[string]string{"token": token, "password": string(password)}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/users/reset-password", req, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if t := c.Token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
