package httpapi

import (
	"context"
	"net/http"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type SystemHandler struct {
	db Pinger
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, Response{
				Message: "database unavailable",
				Errors:  []string{"database unavailable"},
			})
			return
		}
	}
	writeOK(w, http.StatusOK, "ok", nil)
}
