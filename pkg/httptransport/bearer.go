package httptransport

import "net/http"

// TokenSource supplies the current bearer token, if any.
type TokenSource interface {
	Token() (token string, ok bool)
}

// Bearer returns a middleware that attaches the current token from src as an
// Authorization bearer credential. Requests are cloned before mutation, per
// the RoundTripper contract. When no token is present the request passes
// through untouched.
func Bearer(src TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			tok, ok := src.Token()
			if !ok {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set("Authorization", "Bearer "+tok)
			return next.RoundTrip(r)
		})
	}
}
