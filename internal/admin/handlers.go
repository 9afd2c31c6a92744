package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davrell/graft/pkg/hook"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Handlers int    `json:"handlers"`
	Uptime   string `json:"uptime"`
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{
			Status:   "ok",
			Handlers: s.hooks.HandlerCount(),
		}
		if !s.startedAt.IsZero() {
			resp.Uptime = time.Since(s.startedAt).Round(time.Second).String()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HookInfo is one catalog entry for GET /hooks.
type HookInfo struct {
	Kind     string   `json:"kind"`
	Fields   []string `json:"fields"`
	Handlers int      `json:"handlers"`
}

func (s *Server) handleListHooks() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		counts := s.hooks.CountByKind()
		kinds := hook.Kinds()

		out := make([]HookInfo, 0, len(kinds))
		for _, k := range kinds {
			out = append(out, HookInfo{
				Kind:     string(k),
				Fields:   hook.Fields(k),
				Handlers: counts[k],
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleGetHook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k := hook.Kind(chi.URLParam(r, "kind"))
		if !k.Valid() {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown hook: " + string(k)})
			return
		}
		writeJSON(w, http.StatusOK, HookInfo{
			Kind:     string(k),
			Fields:   hook.Fields(k),
			Handlers: s.hooks.CountByKind()[k],
		})
	}
}

func (s *Server) handleListHandlers() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.hooks.Handlers())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
