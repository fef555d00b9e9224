package errhttp

import (
	"fmt"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"
)

const (
	notFoundDetail         = "The requested URL was not found on the server. If you entered the URL manually please check your spelling and try again."
	methodNotAllowedDetail = "The method is not allowed for the requested URL."
)

// NotFoundHandler answers requests that matched no route. Register it with
// chi's Mux.NotFound before mounting sub-routers.
func (t *Translator) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	t.WriteError(w, r, NotFound(notFoundDetail))
}

// MethodNotAllowedHandler answers requests whose path matched but method did
// not. Register it with chi's Mux.MethodNotAllowed.
func (t *Translator) MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	t.WriteError(w, r, MethodNotAllowed(methodNotAllowedDetail))
}

// Recoverer converts a panic in next into a KindInternal response. The panic
// value and stack go to the diagnostic log only. http.ErrAbortHandler is
// re-panicked so net/http can abort the connection.
func (t *Translator) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity, as net/http does
				panic(rec)
			}
			t.WriteError(w, r, &Condition{
				Kind:   KindInternal,
				Detail: string(debug.Stack()),
				Cause:  fmt.Errorf("%w: %v", ErrPanic, rec),
			})
		}()
		next.ServeHTTP(w, r)
	})
}

// RequireContentType rejects requests that carry a body in a media type other
// than the allowed ones with KindUnsupportedMediaType. Requests without a body
// pass through.
func (t *Translator) RequireContentType(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, ct := range allowed {
		set[strings.ToLower(strings.TrimSpace(ct))] = struct{}{}
	}
	detail := fmt.Sprintf("Content-Type must be %s", strings.Join(allowed, " or "))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil {
				t.WriteError(w, r, UnsupportedMediaType(detail))
				return
			}
			if _, ok := set[mediaType]; !ok {
				t.WriteError(w, r, UnsupportedMediaType(detail))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
