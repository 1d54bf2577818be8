// Package api exposes the analyzed inventory over HTTP: health and readiness
// probes, Prometheus metrics, a JSON recommendations endpoint, a single-item
// explain endpoint with fuzzy name resolution, and the text/CSV plan exports.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veyrane/stashwise/internal/engine"
	"github.com/veyrane/stashwise/internal/health"
	"github.com/veyrane/stashwise/internal/observe"
	"github.com/veyrane/stashwise/internal/plan"
	"github.com/veyrane/stashwise/pkg/catalog"
)

// Snapshot is one completed analysis pass: the inputs it was computed from and
// every per-item recommendation. Snapshots are immutable once published.
type Snapshot struct {
	Character   string
	Indexes     *catalog.Indexes
	Items       []engine.Analyzed
	GeneratedAt time.Time
}

// State holds the currently published [Snapshot]. Safe for concurrent use:
// request handlers read whatever snapshot is current while an import or
// re-analysis publishes a new one.
type State struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewState returns an empty State. The server answers 503 on data endpoints
// until the first snapshot is published.
func NewState() *State {
	return &State{}
}

// Publish replaces the current snapshot.
func (s *State) Publish(snap *Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Current returns the published snapshot, or nil before the first analysis.
func (s *State) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Server is the HTTP serving surface.
type Server struct {
	state   *State
	handler http.Handler
}

// New assembles the full route table around state. Every route passes through
// [observe.Middleware] for tracing, request metrics, and completion logging.
// The extra checkers are added to /readyz after the built-in analysis check.
func New(state *State, metrics *observe.Metrics, checkers ...health.Checker) *Server {
	s := &Server{state: state}

	all := append([]health.Checker{{
		Name: "analysis",
		Check: func(ctx context.Context) error {
			if state.Current() == nil {
				return errNotReady
			}
			return nil
		},
	}}, checkers...)

	mux := http.NewServeMux()
	health.New(all...).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)
	mux.HandleFunc("GET /api/item", s.handleItem)
	mux.HandleFunc("GET /api/plan.txt", s.handlePlanText)
	mux.HandleFunc("GET /api/plan.csv", s.handlePlanCSV)

	s.handler = observe.Middleware(metrics)(mux)
	return s
}

// Handler returns the root handler for use with [http.Server].
func (s *Server) Handler() http.Handler {
	return s.handler
}

// recommendationsResponse is the JSON body of /api/recommendations.
type recommendationsResponse struct {
	Character   string            `json:"character"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Total       int               `json:"total"`
	Items       []engine.Analyzed `json:"items"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	snap := s.state.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no analysis has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{
		Character:   snap.Character,
		GeneratedAt: snap.GeneratedAt,
		Total:       len(snap.Items),
		Items:       snap.Items,
	})
}

// itemResponse is the JSON body of /api/item. Matches holds every inventory
// stack with the requested name, since the same item can sit in several
// vaults with different recommendations.
type itemResponse struct {
	Name    string            `json:"name"`
	Matches []engine.Analyzed `json:"matches"`
}

// errorResponse is the JSON body of error replies. Suggestion carries a
// "did you mean" candidate on item-name misses.
type errorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	snap := s.state.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no analysis has completed yet")
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing required query parameter: name")
		return
	}

	var matches []engine.Analyzed
	for _, it := range snap.Items {
		if strings.EqualFold(it.Name, name) {
			matches = append(matches, it)
		}
	}
	if len(matches) == 0 {
		resp := errorResponse{Error: "no inventory item named " + strconv.Quote(name)}
		if suggestion, ok := snap.Indexes.SuggestItemName(name); ok {
			resp.Suggestion = suggestion
		}
		writeJSON(w, http.StatusNotFound, resp)
		return
	}
	writeJSON(w, http.StatusOK, itemResponse{Name: matches[0].Name, Matches: matches})
}

func (s *Server) handlePlanText(w http.ResponseWriter, r *http.Request) {
	snap := s.state.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no analysis has completed yet")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, plan.Text(snap.Items, snap.Character, snap.GeneratedAt))
}

func (s *Server) handlePlanCSV(w http.ResponseWriter, r *http.Request) {
	snap := s.state.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no analysis has completed yet")
		return
	}
	out, err := plan.CSV(snap.Items)
	if err != nil {
		observe.Logger(r.Context()).Error("csv plan generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "plan generation failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="action-plan.csv"`)
	_, _ = io.WriteString(w, out)
}

var errNotReady = errors.New("api: no analysis snapshot published")

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failed"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
