package errhttp

import (
	"context"
	"net/http"
)

const internalMessage = "Internal Server Error"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Build assembles the payload for an already classified condition and
// returns it with status. When either status or c's own kind is 5xx the
// message is fixed and the condition is logged at error level; 4xx conditions
// are not logged.
func (t *Translator) Build(ctx context.Context, c *Condition, status int, label string) (ErrorResponse, int) {
	resp := ErrorResponse{Status: status, Error: label}
	if kindStatus, _ := Classify(c); status >= http.StatusInternalServerError || kindStatus >= http.StatusInternalServerError {
		resp.Message = internalMessage
		t.diagnose(ctx, c, status)
		return resp, status
	}
	if c != nil {
		resp.Message = c.Detail
	}
	return resp, status
}

// diagnose writes the one diagnostic record for a server-side failure and
// hands the condition to the reporter. Neither may fail the response.
func (t *Translator) diagnose(ctx context.Context, c *Condition, status int, extra ...any) {
	if c == nil {
		c = &Condition{Kind: KindInternal}
	}

	func() {
		defer func() { _ = recover() }()
		args := []any{"status", status, "kind", c.Kind.String()}
		if c.Detail != "" {
			args = append(args, "detail", c.Detail)
		}
		if c.Cause != nil {
			args = append(args, "error", c.Cause.Error())
		}
		args = append(args, extra...)
		t.log.ErrorContext(ctx, "request failed", args...)
	}()

	if t.reporter != nil {
		func() {
			defer func() { _ = recover() }()
			t.reporter(ctx, c)
		}()
	}
}
