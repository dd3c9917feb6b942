package handler

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness. Only the database is critical: the other
// dependencies are reported but never turn the check into a 503.
type HealthHandler struct {
	db    Pinger
	extra map[string]Pinger
}

func NewHealthHandler(db Pinger, extra map[string]Pinger) *HealthHandler {
	return &HealthHandler{db: db, extra: extra}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	msg := "Server is running"
	deps := map[string]string{"database": "ok"}
	if err := h.db.Ping(ctx); err != nil {
		deps["database"] = "unavailable"
		status = http.StatusServiceUnavailable
		msg = "Database unavailable"
	}
	names := make([]string, 0, len(h.extra))
	for name := range h.extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := h.extra[name]
		if p == nil {
			continue
		}
		deps[name] = "ok"
		if err := p.Ping(ctx); err != nil {
			deps[name] = "unavailable"
		}
	}
	writeJSON(w, status, Envelope{
		Success:    status == http.StatusOK,
		Message:    msg,
		Data:       map[string]interface{}{"dependencies": deps, "timestamp": time.Now().UTC()},
		StatusCode: status,
	})
}
