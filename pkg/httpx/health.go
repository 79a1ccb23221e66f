package httpx

import (
	"context"
	"net/http"
	"time"
)

const probeTimeout = 2 * time.Second

// HealthChecker matches anything with a Ping method. The ledger's pgx pool,
// Redis client, and event bus all satisfy it.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks names the infrastructure the health endpoint probes.
type HealthChecks struct {
	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
}

// HealthHandler probes every dependency and reports 200 {"status":"ok"} when
// all answer, or 503 {"status":"degraded"} naming the unreachable ones.
// Liveness probes and uptime monitors key off the status code alone.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	probes := []struct {
		key     string
		checker HealthChecker
	}{
		{"database", checks.Database},
		{"redis", checks.Redis},
		{"event_bus", checks.EventBus},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		resp := map[string]string{"status": "ok"}
		status := http.StatusOK
		for _, p := range probes {
			if err := p.checker.Ping(ctx); err != nil {
				resp[p.key] = "unreachable"
				resp["status"] = "degraded"
				status = http.StatusServiceUnavailable
			} else {
				resp[p.key] = "ok"
			}
		}
		JSON(w, status, resp)
	}
}
