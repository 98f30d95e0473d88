package httptransport

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// LogRequests returns a middleware that logs each outgoing request with its
// method, URL, status, and duration. A non-nil base logger is used as-is; with
// a nil base the logger is taken from the request context (zctx).
func LogRequests(base *zap.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			lg := base
			if lg == nil {
				lg = zctx.From(r.Context())
			}

			start := time.Now()
			resp, err := next.RoundTrip(r)
			elapsed := time.Since(start)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("url", r.URL.String()),
				zap.Duration("duration", elapsed),
			}
			if err != nil {
				lg.Debug("Request failed", append(fields, zap.Error(err))...)
				return nil, err
			}
			lg.Debug("Request completed", append(fields, zap.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}
