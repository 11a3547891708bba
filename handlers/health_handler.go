package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			_ = writeJSON(w, http.StatusServiceUnavailable, jsonResponse{"status": "unavailable"}, nil)
			return
		}
		_ = writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil)
	}
}
