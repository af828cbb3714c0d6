package handler

import (
	"context"
	"net/http"
	"time"

	"bookly/internal/httpjson"
)

// Pinger checks reachability of a backing store (database/sql.DB satisfies it).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DenylistPinger checks reachability of the token denylist store.
type DenylistPinger interface {
	Ping(ctx context.Context) error
}

// Server answers liveness and readiness probes for Kubernetes and load
// balancers.
type Server struct {
	db       Pinger
	denylist DenylistPinger
}

// NewServer returns a health Server. Either dependency may be nil; a nil
// dependency is skipped during readiness checks.
func NewServer(db Pinger, denylist DenylistPinger) *Server {
	return &Server{db: db, denylist: denylist}
}

// Live handles GET /healthz. It reports the process is up without touching
// backing stores.
func (s *Server) Live(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz. It pings the database and the denylist store
// and answers 503 when either is unreachable.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}
	if s.denylist != nil {
		if err := s.denylist.Ping(ctx); err != nil {
			checks["denylist"] = err.Error()
			healthy = false
		} else {
			checks["denylist"] = "ok"
		}
	}

	status := http.StatusOK
	body := map[string]any{"status": "ready", "checks": checks}
	if !healthy {
		status = http.StatusServiceUnavailable
		body["status"] = "not ready"
	}
	httpjson.Write(w, status, body)
}
