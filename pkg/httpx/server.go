package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
)

// ServerConfig holds the options for NewRouter.
type ServerConfig struct {
	ServiceName   string
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Pass "*" (dev only) to allow all origins.
	CORSAllowedOrigins string
	// MaxBodyBytes caps request bodies; 0 means 10 MB.
	MaxBodyBytes int64
	// NotFound and MethodNotAllowed answer unrouted requests. They are set on
	// the root mux so every sub-router mounted afterwards inherits them.
	NotFound         http.HandlerFunc
	MethodNotAllowed http.HandlerFunc
}

// Middlewares are the app-specific middlewares NewRouter places ahead of the
// chi built-ins. Nil entries are skipped.
type Middlewares struct {
	Recovery func(http.Handler) http.Handler
	Sentry   func(http.Handler) http.Handler
	Otel     func(http.Handler) http.Handler
	Logger   func(http.Handler) http.Handler
}

// NewRouter returns a chi.Mux pre-wired with the project's standard middleware
// stack.
//
// Middleware order (outermost -> innermost):
//  1. Recovery         : turns panics re-raised by sentry into JSON 500s
//  2. Sentry           : captures panics, re-panics (Repanic: true)
//  3. RequestID        : unique X-Request-Id per request
//  4. Otel             : starts trace span per request
//  5. Logger           : logs request + trace_id/span_id
//  6. RealIP           : sets RemoteAddr from X-Forwarded-For
//  7. CORS             : cross-origin preflight and headers
//  8. BodyLimit        : request body cap
//  9. Security headers : CSP, HSTS, X-Frame-Options, Permissions-Policy, etc.
func NewRouter(cfg ServerConfig, mw Middlewares) *chi.Mux {
	sec := secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), usb=(), magnetometer=(), gyroscope=()",
		IsDevelopment:         cfg.IsDevelopment,
	})

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 << 20
	}

	chain := []func(http.Handler) http.Handler{}
	for _, m := range []func(http.Handler) http.Handler{mw.Recovery, mw.Sentry, middleware.RequestID, mw.Otel, mw.Logger} {
		if m != nil {
			chain = append(chain, m)
		}
	}
	chain = append(chain,
		middleware.RealIP,
		CORSMiddleware(cfg.CORSAllowedOrigins),
		RequestBodyLimit(maxBody),
		sec.Handler,
	)

	r := chi.NewRouter()
	r.Use(chain...)
	if cfg.NotFound != nil {
		r.NotFound(cfg.NotFound)
	}
	if cfg.MethodNotAllowed != nil {
		r.MethodNotAllowed(cfg.MethodNotAllowed)
	}
	return r
}

// CORSMiddleware returns a CORS handler restricted to the given allowed origins.
// allowedOrigins is a comma-separated list (e.g. "https://app.example.com,http://localhost:3000").
// Pass "*" to allow all origins (development only).
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(allowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// ParseOrigins splits a comma-separated origins string into a slice, trimming
// spaces. An empty list means "*".
func ParseOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p := strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit returns middleware that caps the request body at maxBytes.
// Reads past the limit fail with *http.MaxBytesError, which the error layer
// answers as a malformed request.
func RequestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server with production-ready timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}
}
