package client

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

	"github.com/responder/responder/pkg/types"
)

const defaultTimeout = 10 * time.Second

// Errors returned by Client. They mirror the server's store outcomes.
var (
	ErrNoData   = errors.New("no data")
	ErrNotFound = errors.New("not found")
	ErrRejected = errors.New("rejected")
	ErrInvalid  = errors.New("invalid")
)

// StatusError is returned for responses that map to no sentinel.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

// Client talks to one responder server.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a Client for the server at baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base:      u,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: "responderctl",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListQuestions returns every question. ErrNoData when the server has no
// data file.
func (c *Client) ListQuestions(ctx context.Context) ([]types.Question, error) {
	var qs []types.Question
	if err := c.do(ctx, http.MethodGet, "/questions", nil, &qs, ErrNoData); err != nil {
		return nil, err
	}
	return qs, nil
}

// GetQuestion returns the question with id.
func (c *Client) GetQuestion(ctx context.Context, id string) (types.Question, error) {
	var q types.Question
	err := c.do(ctx, http.MethodGet, "/questions/"+url.PathEscape(id), nil, &q, ErrNotFound)
	return q, err
}

// AddQuestion creates a question; the server assigns its id.
func (c *Client) AddQuestion(ctx context.Context, author, summary string) (types.Question, error) {
	var q types.Question
	body := map[string]string{"author": author, "summary": summary}
	err := c.do(ctx, http.MethodPost, "/questions", body, &q, ErrNoData)
	return q, err
}

// GetAnswers returns the answers of question questionID.
func (c *Client) GetAnswers(ctx context.Context, questionID string) ([]types.Answer, error) {
	var as []types.Answer
	if err := c.do(ctx, http.MethodGet, answersPath(questionID), nil, &as, ErrNotFound); err != nil {
		return nil, err
	}
	return as, nil
}

// GetAnswer returns one answer of question questionID.
func (c *Client) GetAnswer(ctx context.Context, questionID, answerID string) (types.Answer, error) {
	var a types.Answer
	err := c.do(ctx, http.MethodGet, answersPath(questionID)+"/"+url.PathEscape(answerID), nil, &a, ErrNotFound)
	return a, err
}

// AddAnswer appends an answer to question questionID. ErrNoData when the
// server has no data file.
func (c *Client) AddAnswer(ctx context.Context, questionID, author, summary string) (types.Answer, error) {
	var a types.Answer
	body := map[string]string{"author": author, "summary": summary}
	err := c.do(ctx, http.MethodPost, answersPath(questionID), body, &a, ErrNoData)
	return a, err
}

func answersPath(questionID string) string {
	return "/questions/" + url.PathEscape(questionID) + "/answers"
}

// do sends one request and decodes a 2xx body into out. notFound is the
// sentinel a 404 maps to for this route.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, notFound error) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode body: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rd)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decode %s %s: %w", method, path, err)
		}
		return nil
	}
	return statusErr(resp, notFound)
}

func statusErr(resp *http.Response, notFound error) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &e)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", notFound, e.Error)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrRejected, e.Error)
	case http.StatusBadRequest:
		if len(bytes.TrimSpace(raw)) == 0 {
			return ErrRejected
		}
		return fmt.Errorf("%w: %s", ErrInvalid, e.Error)
	}
	return &StatusError{Code: resp.StatusCode, Message: e.Error}
}
