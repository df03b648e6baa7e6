package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/saasadmin/internal/adminapi"
)

const maxResponseBytes = 16 << 20

type HTTPClient struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewHTTPClient returns a client for the server at baseURL. A nil hc uses a
// default http.Client; timeouts are expected to come from the context.
func NewHTTPClient(baseURL string, tokens TokenSource, hc *http.Client) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server address %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server address %q: scheme must be http or https", baseURL)
	}
	if hc == nil {
		hc = &http.Client{}
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: hc,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) (*adminapi.Listing, error) {
	body, err := c.do(ctx, http.MethodGet, adminapi.UsersPath, nil)
	if err != nil {
		return nil, err
	}
	l, err := adminapi.DecodeListResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return l, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	body, err := c.do(ctx, http.MethodDelete, adminapi.UsersPath, adminapi.DeleteRequest{UserID: id})
	if err != nil {
		return err
	}
	var resp adminapi.DeleteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if !resp.Success {
		return fmt.Errorf("%w: deletion not confirmed", ErrMalformedResponse)
	}
	return nil
}

func (c *HTTPClient) CheckAdmin(ctx context.Context) (bool, error) {
	body, err := c.do(ctx, http.MethodGet, adminapi.CheckAdminPath, nil)
	if err != nil {
		return false, err
	}
	var resp adminapi.CheckAdminResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return resp.IsAdmin, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, adminapi.DecodeError(body))
	}
	return body, nil
}
