// Package rest is a small client for the Foxpass JSON REST API. Every
// response carries an envelope {"status": ..., "data": ..., "next": ...}.
// The envelope status is a second success signal on top of the HTTP status
// because the backend can answer 200 with an application-level failure.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the production Foxpass API root.
const DefaultBaseURL = "https://api.foxpass.com/v1/"

const (
	defaultTimeout = 10 * time.Second
	statusOK       = "ok"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Next   string          `json:"next"`
}

// Client performs authenticated calls against one base URL. The header set
// is fixed at construction; nothing on the client mutates afterwards.
type Client struct {
	base    string
	headers http.Header
	httpc   *http.Client
	log     logr.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL. The URL must end with a slash.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.base = u }
}

// WithHTTPClient replaces the default client and its bounded timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpc = h
		}
	}
}

// WithLogger sets the logger; logs are discarded when unset.
func WithLogger(l logr.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient builds a client sending Token auth on every request. The key is
// not validated here; a bad key surfaces as a 401/403 on the first call.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		base: DefaultBaseURL,
		headers: http.Header{
			"Accept":        []string{"application/json"},
			"Authorization": []string{"Token " + apiKey},
			"Content-Type":  []string{"application/json"},
		},
		httpc: &http.Client{Timeout: defaultTimeout},
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log.GetSink() == nil {
		c.log = logr.Discard()
	}
	return c
}

// ListAll retrieves every page of a collection, following the envelope's
// next URL until the server stops supplying one. Any failure ends the walk
// and whatever was accumulated so far is returned, so a first-page failure
// yields an empty slice and a mid-stream failure a partial one.
func (c *Client) ListAll(ctx context.Context, endpoint string) []map[string]interface{} {
	var all []map[string]interface{}
	url := c.base + endpoint
	for url != "" {
		status, body, err := c.roundTrip(ctx, http.MethodGet, url, nil)
		if err != nil {
			c.log.Error(err, "request failed", "url", url)
			break
		}
		if status != http.StatusOK {
			c.log.Error(errors.Errorf("status code %d: %s", status, snippet(body)), "request failed", "url", url)
			break
		}
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			c.log.Error(err, "undecodable response", "url", url)
			break
		}
		if env.Status != statusOK {
			c.log.Error(errors.Errorf("status %q", env.Status), "request failed", "url", url)
			break
		}
		if len(env.Data) > 0 {
			var page []map[string]interface{}
			if err := json.Unmarshal(env.Data, &page); err != nil {
				c.log.Error(err, "undecodable page data", "url", url)
				break
			}
			all = append(all, page...)
		}
		url = nextURL(env.Next)
	}
	return all
}

// Get fetches one item and returns the envelope's data mapping. Transport
// failure, a non-200 response and an envelope without status "ok" all come
// back as a nil mapping with the error; callers are not expected to tell
// "not found" apart from "failed".
func (c *Client) Get(ctx context.Context, endpoint, item string) (map[string]interface{}, error) {
	url := c.base + endpoint + item
	status, body, err := c.roundTrip(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		err := errors.Errorf("GET %s: status code %d: %s", url, status, snippet(body))
		c.log.V(1).Info("request failed", "err", err.Error())
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrapf(err, "GET %s: decoding response", url)
	}
	if env.Status != statusOK {
		err := errors.Errorf("GET %s: status %q", url, env.Status)
		c.log.V(1).Info("request failed", "err", err.Error())
		return nil, err
	}
	data := map[string]interface{}{}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, errors.Wrapf(err, "GET %s: decoding data", url)
		}
	}
	return data, nil
}

// Create POSTs the payload to a collection and returns the full parsed
// response body on 200.
func (c *Client) Create(ctx context.Context, endpoint string, payload interface{}) (map[string]interface{}, error) {
	return c.exchange(ctx, http.MethodPost, c.base+endpoint, payload)
}

// Update PUTs the payload to one item and returns the full parsed response
// body on 200. The backend treats repeated PUTs as an idempotent upsert.
func (c *Client) Update(ctx context.Context, endpoint, item string, payload interface{}) (map[string]interface{}, error) {
	return c.exchange(ctx, http.MethodPut, c.base+endpoint+item, payload)
}

// Delete removes one item. The composed URL always ends in a slash; the
// backend routes deletes that way and the other verbs without it.
func (c *Client) Delete(ctx context.Context, endpoint, item string) (map[string]interface{}, error) {
	return c.exchange(ctx, http.MethodDelete, c.base+endpoint+item+"/", nil)
}

// Probe reports whether a GET on the item answers 200 with an "ok"
// envelope. Any other outcome, transport failure included, is false and
// logged as an error.
func (c *Client) Probe(ctx context.Context, endpoint, item string) bool {
	url := c.base + endpoint + item
	status, body, err := c.roundTrip(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Error(err, "probe failed", "url", url)
		return false
	}
	if status != http.StatusOK {
		c.log.Error(errors.Errorf("status code %d: %s", status, snippet(body)), "probe failed", "url", url)
		return false
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.log.Error(err, "probe failed", "url", url)
		return false
	}
	return env.Status == statusOK
}

// exchange runs one write-style request and parses the full response body.
func (c *Client) exchange(ctx context.Context, method, url string, payload interface{}) (map[string]interface{}, error) {
	status, body, err := c.roundTrip(ctx, method, url, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		err := errors.Errorf("%s %s: status code %d: %s", method, url, status, snippet(body))
		c.log.V(1).Info("request failed", "err", err.Error())
		return nil, err
	}
	parsed := map[string]interface{}{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrapf(err, "%s %s: decoding response", method, url)
	}
	return parsed, nil
}

func (c *Client) roundTrip(ctx context.Context, method, url string, payload interface{}) (int, []byte, error) {
	tracer := otel.Tracer("rest")
	ctx, span := tracer.Start(ctx, "Foxpass "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.method", method)),
		trace.WithAttributes(attribute.String("http.url", url)),
	)
	defer span.End()

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return 0, nil, errors.Wrapf(err, "%s %s: encoding request body", method, url)
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, errors.Wrapf(err, "%s %s: building request", method, url)
	}
	req.Header = c.headers.Clone()

	resp, err := c.httpc.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, errors.Wrapf(err, "%s %s", method, url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return resp.StatusCode, nil, errors.Wrapf(err, "%s %s: reading response", method, url)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return resp.StatusCode, body, nil
}

// nextURL returns the continuation URL or "" when pagination is complete.
// A next value that is not an absolute http(s) URL ends the walk instead of
// producing an unroutable request.
func nextURL(next string) string {
	if strings.HasPrefix(next, "http://") || strings.HasPrefix(next, "https://") {
		return next
	}
	return ""
}

func snippet(b []byte) string {
	const max = 256
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
