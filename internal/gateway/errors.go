package gateway

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrUnauthorized indicates the bearer token is no longer accepted by the
// remote system. It always leads to a full session clear; no other error
// class may do that.
var ErrUnauthorized = errors.New("unauthorized")

// PrivilegeError indicates the caller is authenticated but lacks a required
// capability (HTTP 403). Rendered distinctly from validation failures.
type PrivilegeError struct {
	Detail string
}

func (e *PrivilegeError) Error() string {
	if e.Detail == "" {
		return "operation not permitted"
	}
	return fmt.Sprintf("operation not permitted: %s", e.Detail)
}

// ValidationError indicates the server rejected the input as malformed or
// policy-violating (duplicate registration, insufficient stock, unknown
// product). Detail carries the server-provided text for display.
type ValidationError struct {
	Status int
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request rejected (status %d)", e.Status)
	}
	return e.Detail
}
