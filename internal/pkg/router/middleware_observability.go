package router

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/moolaigym/gymcore/internal/pkg/config"
	"github.com/moolaigym/gymcore/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const maxLoggedBodyBytes = 32 * 1024 // 32KB

// redactSet holds the lowercased field and header names whose values must
// never reach the logs. Credentials, PINs and one-time codes all travel
// through these handlers, so redaction is driven by config, not hardcoded.
type redactSet map[string]struct{}

func newRedactSet(cfg config.Config) redactSet {
	set := make(redactSet)
	if cfg == nil {
		return set
	}

	for _, field := range cfg.GetArray("instrument.log_mask_fields") {
		field = strings.TrimSpace(strings.ToLower(field))
		if field != "" {
			set[field] = struct{}{}
		}
	}

	return set
}

func (rs redactSet) headers(headers http.Header) http.Header {
	if len(rs) == 0 {
		return headers
	}

	result := headers.Clone()
	for key := range result {
		if _, found := rs[strings.ToLower(key)]; found {
			result.Set(key, "***")
		}
	}

	return result
}

// value walks decoded JSON and blanks every key in the set, at any depth.
func (rs redactSet) value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		masked := make(map[string]any, len(val))
		for k, inner := range val {
			if _, found := rs[strings.ToLower(k)]; found {
				masked[k] = "***"
			} else {
				masked[k] = rs.value(inner)
			}
		}
		return masked
	case []any:
		res := make([]any, len(val))
		for i, inner := range val {
			res[i] = rs.value(inner)
		}
		return res
	default:
		return v
	}
}

// body renders a request or response body for logging: JSON and form bodies
// are decoded and redacted, anything else is logged as text when printable.
func (rs redactSet) body(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var jsonBody any
	if err := json.Unmarshal(body, &jsonBody); err == nil {
		return rs.value(jsonBody)
	}

	if strings.HasPrefix(strings.ToLower(contentType), "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil {
			masked := make(map[string]any, len(values))
			for k, v := range values {
				if _, found := rs[strings.ToLower(k)]; found {
					masked[k] = "***"
					continue
				}
				if len(v) == 1 {
					masked[k] = v[0]
				} else {
					masked[k] = v
				}
			}
			return masked
		}
	}

	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	if len(body) > maxLoggedBodyBytes {
		return string(body[:maxLoggedBodyBytes]) + "...(truncated)"
	}

	return string(body)
}

// responseCapture wraps the ResponseWriter to remember the status code, the
// byte count and a capped copy of the body for the completion log line.
type responseCapture struct {
	http.ResponseWriter
	status int
	bytes  int
	body   bytes.Buffer
	capped bool
	err    error
}

func (w *responseCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseCapture) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if !w.capped && len(p) > 0 {
		remaining := maxLoggedBodyBytes - w.body.Len()
		switch {
		case remaining <= 0:
			w.capped = true
		case len(p) > remaining:
			w.body.Write(p[:remaining])
			w.capped = true
		default:
			w.body.Write(p)
		}
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// SetError lets response writers hand the handler error to the span; the
// router's error writer type-asserts for it.
func (w *responseCapture) SetError(err error) {
	w.err = err
}

func (w *responseCapture) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

//nolint:err113 // it use dynamic error
func (w *responseCapture) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

func (w *responseCapture) Push(target string, opts *http.PushOptions) error {
	if p, ok := w.ResponseWriter.(http.Pusher); ok {
		return p.Push(target, opts)
	}
	return http.ErrNotSupported
}

func (w *responseCapture) statusOr200() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *responseCapture) loggedBody(redact redactSet) any {
	var respBody any
	var respJSON any
	if err := json.Unmarshal(w.body.Bytes(), &respJSON); err == nil {
		respBody = redact.value(respJSON)
	} else if utf8.Valid(w.body.Bytes()) {
		respBody = w.body.String()
	} else if w.body.Len() > 0 {
		respBody = "<binary body omitted>"
	}

	if w.capped {
		respBody = map[string]any{
			"body":      respBody,
			"truncated": true,
		}
	}

	return respBody
}

// matchedRoutePath prefers the route pattern over the raw path so metric
// cardinality stays bounded for parameterized routes.
func matchedRoutePath(r *http.Request) string {
	pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath()
	if pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// peekRequestBody reads up to the logging cap and stitches the bytes back
// onto r.Body so the handler still sees the full stream.
func peekRequestBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}

	limited := io.LimitReader(r.Body, maxLoggedBodyBytes+1)
	//nolint:errcheck // best effort for logging only
	peeked, _ := io.ReadAll(limited)
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(peeked), r.Body))
	if len(peeked) > maxLoggedBodyBytes {
		return peeked[:maxLoggedBodyBytes]
	}
	return peeked
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	redact := newRedactSet(cfg)
	tracer := ins.Tracer("http.server")
	meter := ins.Meter("http.server")

	requestCounter, err := meter.Int64Counter("http.server.requests", metric.WithDescription("Number of HTTP requests received"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}

	durationHistogram, err := meter.Float64Histogram("http.server.duration", metric.WithDescription("HTTP request duration in milliseconds"))
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	finishSpan := func(ctx context.Context, span trace.Span, rec *responseCapture, attrs []attribute.KeyValue) {
		if rec.err != nil {
			span.RecordError(rec.err)
		}

		if rec.statusOr200() >= 500 {
			if rec.err != nil {
				span.SetStatus(codes.Error, rec.err.Error())
			} else {
				span.SetStatus(codes.Error, http.StatusText(rec.statusOr200()))
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}

		span.SetAttributes(attrs...)
		if requestCounter != nil {
			requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			start := time.Now()

			ctx, span := tracer.Start(
				r.Context(),
				r.Method+" "+route,
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
				),
			)
			defer span.End()

			reqBody := peekRequestBody(r)
			slog.InfoContext(
				ctx,
				"request received",
				"method", r.Method,
				"path", route,
				"uri", r.RequestURI,
				"headers", redact.headers(r.Header),
				"body", redact.body(r.Header.Get("Content-Type"), reqBody),
			)

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.statusOr200()
			elapsedMs := float64(time.Since(start).Milliseconds())

			attrs := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			}
			finishSpan(ctx, span, rec, attrs)
			if durationHistogram != nil {
				durationHistogram.Record(ctx, elapsedMs, metric.WithAttributes(attrs...))
			}

			span.SetAttributes(
				semconv.NetworkProtocolVersionKey.String(r.Proto),
				semconv.ServerAddressKey.String(r.Host),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.Int("http.response_content_length", rec.bytes),
			)

			slog.InfoContext(
				ctx,
				"response sent",
				"method", r.Method,
				"path", route,
				"uri", r.RequestURI,
				"status", status,
				"bytes", rec.bytes,
				"latency_ms", time.Since(start).Milliseconds(),
				"body", rec.loggedBody(redact),
			)
		})
	}
}
