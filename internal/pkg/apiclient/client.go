// Package apiclient is a typed client for the /api/v1 REST API.
//
// Reads tolerate malformed bodies (they yield an empty result); writes
// surface them. Non-2xx responses become *APIError. There is no retry and no
// caching; cancellation goes through the context.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/convocatorias/portal/internal/app/models/dto"
)

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithToken authenticates every request with a bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// Client talks to one API base URL, e.g. http://localhost:8080/api/v1.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken changes the bearer token used for later requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope is the success body of every endpoint.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// errorBody reads the message of the error envelope.
type errorBody struct {
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends the request and decodes the data field of the envelope into out.
// When lenient is set a body that cannot be decoded leaves out untouched.
func (c *Client) do(req *http.Request, out interface{}, lenient bool) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var env envelope
	err = json.Unmarshal(data, &env)
	if err == nil && len(env.Data) > 0 {
		err = decodeInto(env.Data, out)
	}
	if err != nil && !lenient {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeInto unmarshals data into a fresh value and copies it to out only
// when decoding succeeds, so a failure never leaves out half filled.
func decodeInto(data []byte, out interface{}) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return json.Unmarshal(data, out)
	}
	tmp := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(data, tmp.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(tmp.Elem())
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	var eb errorBody
	msg := ""
	if json.Unmarshal(body, &eb) == nil {
		msg = eb.Message
		if msg == "" && eb.Error != nil {
			msg = eb.Error.Message
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{StatusCode: status, Message: msg}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out, true)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out, false)
}

// Login authenticates and keeps the returned token for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.send(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token.AccessToken
	return &out, nil
}

// Confirm resolves a pending deletion.
func (c *Client) Confirm(ctx context.Context, token string, confirm bool) (string, error) {
	var out dto.ConfirmResultResponse
	err := c.send(ctx, http.MethodPost, "/confirmations/"+url.PathEscape(token), dto.ConfirmRequest{Confirm: &confirm}, &out)
	return out.Outcome, err
}

// Explorer fetches one explorer page.
func (c *Client) Explorer(ctx context.Context, view, query string, page int) (*dto.ExplorerResponse, error) {
	q := url.Values{}
	if view != "" {
		q.Set("view", view)
	}
	if query != "" {
		q.Set("q", query)
	}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	out := &dto.ExplorerResponse{}
	if err := c.get(ctx, "/explorer?"+q.Encode(), out); err != nil {
		return nil, err
	}
	return out, nil
}

// Raw lists any resource without decoding its records.
func (c *Client) Raw(ctx context.Context, resource, term string) ([]json.RawMessage, error) {
	return NewResource[json.RawMessage](c, resource).List(ctx, term)
}
