package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/davrell/graft/internal/metrics"
	"github.com/davrell/graft/pkg/hook"
)

func newTestServer(t *testing.T) (*Server, *hook.Manager) {
	t.Helper()
	m := hook.New()
	t.Cleanup(m.Shutdown)
	return New(m, WithGatherer(prometheus.NewRegistry())), m
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s, m := newTestServer(t)
	if err := m.Register(hook.On(hook.SessionPreInitKind,
		func(_ context.Context, _ *hook.Invocation, _ hook.Payload) (*hook.Result, error) {
			return nil, nil
		})); err != nil {
		t.Fatalf("register: %v", err)
	}

	rec := get(t, s.Router(), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Handlers != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListHooks(t *testing.T) {
	t.Parallel()

	s, m := newTestServer(t)
	if err := m.Register(hook.On(hook.GenerationPreCallKind,
		func(_ context.Context, _ *hook.Invocation, _ hook.Payload) (*hook.Result, error) {
			return nil, nil
		})); err != nil {
		t.Fatalf("register: %v", err)
	}

	rec := get(t, s.Router(), "/hooks")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out []HookInfo
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != len(hook.Kinds()) {
		t.Fatalf("catalog size = %d, want %d", len(out), len(hook.Kinds()))
	}
	var found bool
	for _, h := range out {
		if h.Kind == "generation_pre_call" {
			found = true
			if h.Handlers != 1 {
				t.Errorf("generation_pre_call handlers = %d, want 1", h.Handlers)
			}
		}
	}
	if !found {
		t.Error("generation_pre_call missing from catalog")
	}
}

func TestGetHook(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	r := s.Router()

	rec := get(t, r, "/hooks/session_pre_init")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var info HookInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(info.Fields) == 0 || info.Fields[0] != "backend_name" {
		t.Errorf("fields = %v", info.Fields)
	}

	if rec := get(t, r, "/hooks/bogus"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown hook status = %d, want 404", rec.Code)
	}
}

func TestListHandlers(t *testing.T) {
	t.Parallel()

	s, m := newTestServer(t)
	if err := m.Register(hook.On(hook.ToolPreInvokeKind,
		func(_ context.Context, _ *hook.Invocation, _ hook.Payload) (*hook.Result, error) {
			return nil, nil
		}, hook.WithName("tool-gate"), hook.WithPriority(7))); err != nil {
		t.Fatalf("register: %v", err)
	}

	rec := get(t, s.Router(), "/handlers")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "tool-gate") {
		t.Errorf("handler table missing entry: %s", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	obs, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}

	m := hook.New(hook.WithObserver(obs))
	t.Cleanup(m.Shutdown)
	if err := m.Register(hook.On(hook.SessionPreInitKind,
		func(_ context.Context, _ *hook.Invocation, _ hook.Payload) (*hook.Result, error) {
			return nil, nil
		})); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := m.Invoke(context.Background(), hook.SessionPreInitKind, hook.SessionPreInit{}); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	s := New(m, WithGatherer(reg))
	rec := get(t, s.Router(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "graft_hook_dispatches_total") {
		t.Error("dispatch counter missing from exposition")
	}
}
