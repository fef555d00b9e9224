package httpx

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Database, cache.RedisClient, events.EventBus).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheck names one dependency probed by the health endpoint.
type HealthCheck struct {
	Name    string
	Checker HealthChecker
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthHandler returns an http.HandlerFunc that probes every check within a
// 2 s budget and answers 503 "degraded" if any of them fail. Nil checkers are
// reported as "disabled" and do not degrade the service.
func HealthHandler(version string, checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:  "ok",
			Version: version,
			Checks:  make(map[string]string, len(checks)),
		}
		for _, c := range checks {
			switch {
			case c.Checker == nil:
				resp.Checks[c.Name] = "disabled"
			case c.Checker.Ping(ctx) != nil:
				resp.Status = "degraded"
				resp.Checks[c.Name] = "unreachable"
			default:
				resp.Checks[c.Name] = "ok"
			}
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
