// Package health serves the advisor's liveness and readiness probes.
//
//   - /healthz answers 200 whenever the process can serve HTTP.
//   - /readyz answers 200 only when every registered [Checker] passes;
//     typical checks are "analysis" (a snapshot has been published),
//     "catalog" (the catalog data is not older than the configured max age)
//     and "store" (the profile store answers).
//
// Responses are JSON: {"status": "ok"|"fail", "checks": {<name>: "ok"|"fail: <why>"}}.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// checkTimeout bounds a single readiness check.
const checkTimeout = 5 * time.Second

// Checker is one named readiness probe. Check returns nil when the
// dependency is usable and an error describing the problem otherwise.
type Checker struct {
	// Name keys the check's entry in the /readyz JSON body.
	Name string

	// Check probes the dependency. It must respect context cancellation.
	Check func(ctx context.Context) error
}

// CatalogFresh is a [Checker] that fails when the analysed catalog snapshot
// is missing or older than maxAge. generatedAt reports the current
// snapshot's build time; ok false means no snapshot has been published yet.
func CatalogFresh(maxAge time.Duration, generatedAt func() (t time.Time, ok bool)) Checker {
	return Checker{
		Name: "catalog",
		Check: func(_ context.Context) error {
			t, ok := generatedAt()
			if !ok {
				return fmt.Errorf("no catalog snapshot yet")
			}
			if age := time.Since(t); age > maxAge {
				return fmt.Errorf("catalog snapshot is %s old (max %s)",
					age.Round(time.Minute), maxAge)
			}
			return nil
		},
	}
}

// StorePing is a [Checker] that probes the profile store by listing stored
// characters.
func StorePing(list func(ctx context.Context) ([]string, error)) Checker {
	return Checker{
		Name: "store",
		Check: func(ctx context.Context) error {
			_, err := list(ctx)
			return err
		},
	}
}

// Handler serves /healthz and /readyz. The checker list is fixed at
// construction, so the handler is safe for concurrent use.
type Handler struct {
	checkers []Checker
}

// New creates a [Handler] that evaluates the given checkers, in order, on
// each /readyz request.
func New(checkers ...Checker) *Handler {
	return &Handler{checkers: append([]Checker(nil), checkers...)}
}

// report is the JSON body of both probes.
type report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is the liveness probe. A process that reaches this handler is
// alive, so it always answers 200.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, report{Status: "ok"})
}

// Readyz runs every checker under a [checkTimeout] deadline derived from
// the request context and answers 503 when any of them fails.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	rep := report{
		Status: "ok",
		Checks: make(map[string]string, len(h.checkers)),
	}
	status := http.StatusOK

	for _, c := range h.checkers {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := c.Check(ctx)
		cancel()

		if err != nil {
			rep.Checks[c.Name] = "fail: " + err.Error()
			rep.Status = "fail"
			status = http.StatusServiceUnavailable
		} else {
			rep.Checks[c.Name] = "ok"
		}
	}

	writeJSON(w, status, rep)
}

// Register adds both probe routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}
}
