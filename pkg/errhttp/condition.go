package errhttp

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure classes the HTTP layer knows how to answer.
type Kind int

const (
	// KindUnknown is the zero value. It classifies as KindInternal.
	KindUnknown Kind = iota
	// KindMalformedRequest is a request the transport layer could not parse.
	KindMalformedRequest
	// KindValidationFailure is a request rejected by domain rules.
	KindValidationFailure
	// KindNotFound is a missing route or resource.
	KindNotFound
	// KindMethodNotAllowed is a known route hit with an unsupported method.
	KindMethodNotAllowed
	// KindUnsupportedMediaType is a request body in a media type we don't accept.
	KindUnsupportedMediaType
	// KindInternal is anything the service failed to handle.
	KindInternal
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	KindMalformedRequest:     "malformed_request",
	KindValidationFailure:    "validation_failure",
	KindNotFound:             "not_found",
	KindMethodNotAllowed:     "method_not_allowed",
	KindUnsupportedMediaType: "unsupported_media_type",
	KindInternal:             "internal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrPanic marks the Cause of a Condition built from a recovered panic.
var ErrPanic = errors.New("panic recovered")

// Condition is a raised request-handling failure. Treat it as read-only once
// constructed; Detail is shown to clients for 4xx kinds, Cause never is.
type Condition struct {
	Kind   Kind
	Detail string
	Cause  error
}

// Error implements error.
func (c *Condition) Error() string {
	switch {
	case c.Detail != "" && c.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", c.Kind, c.Detail, c.Cause)
	case c.Detail != "":
		return fmt.Sprintf("%s: %s", c.Kind, c.Detail)
	case c.Cause != nil:
		return fmt.Sprintf("%s: %v", c.Kind, c.Cause)
	default:
		return c.Kind.String()
	}
}

// Unwrap exposes Cause to errors.Is and errors.As.
func (c *Condition) Unwrap() error { return c.Cause }

// BadRequest raises a KindMalformedRequest condition.
func BadRequest(detail string) *Condition {
	return &Condition{Kind: KindMalformedRequest, Detail: detail}
}

// ValidationFailed raises a KindValidationFailure condition.
func ValidationFailed(detail string) *Condition {
	return &Condition{Kind: KindValidationFailure, Detail: detail}
}

// NotFound raises a KindNotFound condition.
func NotFound(detail string) *Condition {
	return &Condition{Kind: KindNotFound, Detail: detail}
}

// MethodNotAllowed raises a KindMethodNotAllowed condition.
func MethodNotAllowed(detail string) *Condition {
	return &Condition{Kind: KindMethodNotAllowed, Detail: detail}
}

// UnsupportedMediaType raises a KindUnsupportedMediaType condition.
func UnsupportedMediaType(detail string) *Condition {
	return &Condition{Kind: KindUnsupportedMediaType, Detail: detail}
}

// Internal raises a KindInternal condition around cause.
func Internal(cause error) *Condition {
	return &Condition{Kind: KindInternal, Cause: cause}
}

// Wrap raises a condition of the given kind that keeps err as its Cause.
// The detail shown to clients is err's message.
func Wrap(kind Kind, err error) *Condition {
	if err == nil {
		return &Condition{Kind: kind}
	}
	return &Condition{Kind: kind, Detail: err.Error(), Cause: err}
}
