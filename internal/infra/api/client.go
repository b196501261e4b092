package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"tourbook/internal/domain/shared/faults"
)

// Client talks to the remote tour platform API on behalf of one signed-in
// user. Successful responses arrive in a {data: {doc|docs}} envelope;
// error responses carry {status, message} and are mapped onto the faults
// taxonomy.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Logger  *slog.Logger
}

func NewClient(baseURL, token string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    httpClient,
		Logger:  logger,
	}
}

type envelope struct {
	Status string `json:"status"`
	Data   struct {
		Doc  json.RawMessage `json:"doc"`
		Docs json.RawMessage `json:"docs"`
	} `json:"data"`
}

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// do performs one round trip and returns the decoded success envelope.
// 204 responses yield an empty envelope.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	if c == nil || c.HTTP == nil {
		return nil, errors.New("api: http client not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.logError("remote request failed", method, path, err)
		return nil, fmt.Errorf("%w: %v", faults.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.decodeError(method, path, resp)
	}
	if resp.StatusCode == http.StatusNoContent {
		return &envelope{}, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.logError("remote envelope decode failed", method, path, err)
		return nil, fmt.Errorf("%w: malformed response envelope: %v", faults.ErrValidation, err)
	}
	return &env, nil
}

func (c *Client) decodeError(method, path string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	var body errorEnvelope
	message := strings.TrimSpace(string(snippet))
	if err := json.Unmarshal(snippet, &body); err == nil && body.Message != "" {
		message = body.Message
	}
	err := faults.FromStatus(resp.StatusCode, message)
	c.logError("remote returned error", method, path, err)
	return err
}

func (c *Client) logError(msg, method, path string, err error) {
	if c.Logger != nil {
		c.Logger.Error(msg, "method", method, "path", path, "error", err)
	}
}
