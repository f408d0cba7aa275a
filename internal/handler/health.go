package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"dbConnected"`
}

// Health reports process liveness and store connectivity.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		connected := db.PingContext(ctx) == nil
		WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", DBConnected: connected})
	}
}
