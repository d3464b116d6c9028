package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ErrNoToken is returned when a login reply carries no token.
var ErrNoToken = errors.New("login response contained no token")

type loginRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	Data        *struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

func (r tokenResponse) value() string {
	switch {
	case r.Token != "":
		return r.Token
	case r.AccessToken != "":
		return r.AccessToken
	case r.Data != nil && r.Data.Token != "":
		return r.Data.Token
	case r.Data != nil:
		return r.Data.AccessToken
	}
	return ""
}

// Login exchanges credentials for a bearer token. An identity containing "@"
// is sent as email, anything else as username.
func (c *Client) Login(ctx context.Context, identity, password string) (string, error) {
	req := loginRequest{Password: password}
	if strings.Contains(identity, "@") {
		req.Email = identity
	} else {
		req.Username = identity
	}
	body, err := c.do(ctx, "auth", http.MethodPost, c.authPaths.LoginPath, req)
	if err != nil {
		return "", err
	}
	return parseToken(body)
}

// RefreshToken asks the backend for a new token using the current one.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	body, err := c.do(ctx, "auth", http.MethodPost, c.authPaths.RefreshPath, nil)
	if err != nil {
		return "", err
	}
	return parseToken(body)
}

func parseToken(body []byte) (string, error) {
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", ErrNoToken
	}
	token := tr.value()
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
