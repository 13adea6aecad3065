package health

import (
	"context"
	"net/http"
	"time"

	"github.com/ridoy-adhikary/towerCrane/internal/common"
)

const probeTimeout = 2 * time.Second

// Pinger is a health probe for one dependency.
type Pinger func(ctx context.Context) error

// Handlers serves liveness and readiness endpoints.
type Handlers struct {
	probes map[string]Pinger
}

// NewHandlers builds health handlers over named dependency probes.
func NewHandlers(probes map[string]Pinger) *Handlers {
	return &Handlers{probes: probes}
}

// Live handles GET /health/live.
func (h *Handlers) Live(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready. Each dependency is probed with its own
// timeout so one hung backend cannot stall the whole check.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := map[string]string{}
	for name, probe := range h.probes {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		err := probe(ctx)
		cancel()
		if err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = "down"
			continue
		}
		checks[name] = "up"
	}
	body := map[string]any{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	common.JSON(w, status, body)
}
