// Package health exposes GET /health for load balancers and uptime checks.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/utils/response"
	"github.com/rs/zerolog"
)

const pingTimeout = 5 * time.Second

// Status is the health response body.
type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Storage   string    `json:"storage"`
}

// Check answers 200 when storage responds to a ping and 503 otherwise.
func Check(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		body := Status{Status: "healthy", Timestamp: time.Now().UTC(), Storage: "up"}
		status := http.StatusOK

		if err := store.Ping(ctx); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("storage ping failed")
			body.Status, body.Storage = "unhealthy", "down"
			status = http.StatusServiceUnavailable
		}

		response.WriteJSON(w, r, status, body)
	}
}
