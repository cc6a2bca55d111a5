package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avstrong/wandernest/internal/logger"
)

const maxErrorBody = 4 << 10

type Conf struct {
	L       *logger.Logger
	BaseURL string
	Timeout time.Duration
	Tokens  TokenStore
	HTTP    *http.Client
}

// Client talks to the WanderNest REST API on behalf of the signed-in user.
type Client struct {
	l       *logger.Logger
	baseURL *url.URL
	session *http.Client
	tokens  TokenStore
}

func New(conf Conf) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(conf.BaseURL, "/") + "/")
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q: %w", conf.BaseURL, ErrBaseURL)
	}

	session := conf.HTTP
	if session == nil {
		//nolint:exhaustruct
		session = &http.Client{Timeout: conf.Timeout}
	}

	tokens := conf.Tokens
	if tokens == nil {
		tokens = NewMemoryTokens("")
	}

	return &Client{
		l:       conf.L,
		baseURL: base,
		session: session,
		tokens:  tokens,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	endpoint := c.baseURL.JoinPath(strings.TrimPrefix(path, "/"))
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(endpoint.Path, "/") {
		endpoint.Path += "/"
	}

	var reader io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %T: %w", body, err)
		}

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}

	defer resp.Body.Close()

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := &StatusError{
		Code: resp.StatusCode,
		Body: strings.TrimSpace(string(b)),
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Clear()
		c.l.LogWarnf("Session rejected by %s %s, token cleared", req.Method, req.URL.Path)

		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, statusErr)
	}

	return nil, statusErr
}

// call performs the request and decodes a JSON response body into out.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s %s: empty body: %w", method, path, ErrMalformedResponse)
		}

		return fmt.Errorf("%s %s: %w: %w", method, path, ErrMalformedResponse, err)
	}

	return nil
}

// decodeList accepts either a bare JSON array or a paginated {"results": [...]} envelope.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}

		return items, nil
	}

	var envelope struct {
		Results []T `json:"results"`
	}

	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return envelope.Results, nil
}
