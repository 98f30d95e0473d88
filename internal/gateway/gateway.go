// Package gateway is the single configured HTTP client for the remote store.
// It decorates every outgoing request with the current bearer token, exposes
// one typed operation per remote endpoint, and classifies failures into the
// client's error taxonomy. It performs no retries: transient network failures
// propagate to the caller.
package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/etec-programacion-3/electrotech-client/pkg/httptransport"
)

// Config holds gateway construction parameters.
type Config struct {
	// BaseURL is the root of the remote API, e.g. "http://localhost:8000".
	BaseURL string
	// Timeout bounds each request end to end. Zero means 10s.
	Timeout time.Duration
	// TracerProvider and MeterProvider instrument the HTTP transport when
	// set. Nil providers leave instrumentation at the otel globals.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Gateway issues typed requests against the remote store.
type Gateway struct {
	base         *url.URL
	http         *http.Client
	unauthorized func()
}

// New builds a Gateway. Every request carries the current token from tokens
// as a bearer credential. onUnauthorized runs whenever a response reports an
// authorization failure, before the error is returned to the caller; wire it
// to the session manager's invalidation.
func New(cfg Config, tokens httptransport.TokenSource, onUnauthorized func(), lg *zap.Logger) (*Gateway, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if onUnauthorized == nil {
		onUnauthorized = func() {}
	}

	rt := httptransport.Wrap(http.DefaultTransport,
		httptransport.RequestID(),
		httptransport.LogRequests(lg),
		httptransport.Bearer(tokens),
	)

	var otelOpts []otelhttp.Option
	if cfg.TracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithMeterProvider(cfg.MeterProvider))
	}

	return &Gateway{
		base: base,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(rt, otelOpts...),
		},
		unauthorized: onUnauthorized,
	}, nil
}

// do executes one request and decodes a successful response through decode.
// Non-2xx responses are classified: 401 triggers the unauthorized hook and
// yields ErrUnauthorized, 403 yields *PrivilegeError, other 4xx yield
// *ValidationError with the server's detail text, and everything else is a
// generic wrapped failure.
func (g *Gateway) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, decode func(*jx.Decoder) error) error {
	u := *g.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return g.classify(resp)
	}
	if decode == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if err := decode(jx.DecodeBytes(data)); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// classify turns a non-2xx response into a taxonomy error.
func (g *Gateway) classify(resp *http.Response) error {
	detail := readDetail(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		g.unauthorized()
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return &PrivilegeError{Detail: detail}
	case resp.StatusCode < 500:
		return &ValidationError{Status: resp.StatusCode, Detail: detail}
	default:
		if detail != "" {
			return errors.Errorf("server error (status %d): %s", resp.StatusCode, detail)
		}
		return errors.Errorf("server error (status %d)", resp.StatusCode)
	}
}

// readDetail extracts the "detail" field the server puts in error bodies.
// Anything unparseable is ignored; the status code alone still classifies.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	var detail string
	d := jx.DecodeBytes(data)
	_ = d.Obj(func(d *jx.Decoder, key string) error {
		if key != "detail" {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		detail = s
		return nil
	})
	return detail
}

// get issues a GET and decodes the response.
func (g *Gateway) get(ctx context.Context, path string, query url.Values, decode func(*jx.Decoder) error) error {
	return g.do(ctx, http.MethodGet, path, query, nil, "", decode)
}

// postJSON issues a POST with a JSON body and decodes the response.
func (g *Gateway) postJSON(ctx context.Context, path string, body []byte, decode func(*jx.Decoder) error) error {
	return g.do(ctx, http.MethodPost, path, nil, body, "application/json", decode)
}

// postForm issues a POST with a form-encoded body and decodes the response.
func (g *Gateway) postForm(ctx context.Context, path string, form url.Values, decode func(*jx.Decoder) error) error {
	return g.do(ctx, http.MethodPost, path, nil, []byte(form.Encode()), "application/x-www-form-urlencoded", decode)
}
