// Package audit implements the built-in audit plugin. It observes
// generation, tool, and component-error extension points in permissive
// mode, writes one JSONL record per event to a rotating log file, and
// optionally persists error events to a SQLite sink.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/davrell/graft/internal/core"
	"github.com/davrell/graft/pkg/hook"
)

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.HookProvider = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
)

// Module is the audit plugin module.
type Module struct {
	config Config
	logger *slog.Logger
	sink   *lumberjack.Logger
	writer *logWriter
	store  *errorStore
	bundle *hook.Bundle
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "plugin.audit",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("audit: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.logger = ctx.Logger

	if m.config.Path == "" {
		m.config.Path = filepath.Join(ctx.DataDir, defaultLogFile)
	}

	m.sink = &lumberjack.Logger{
		Filename:   m.config.Path,
		MaxSize:    m.config.MaxSizeMB,
		MaxBackups: m.config.MaxBackups,
		MaxAge:     m.config.MaxAgeDays,
		Compress:   *m.config.Compress,
	}
	m.writer = &logWriter{out: m.sink}

	if m.config.Store.Enabled {
		path := m.config.Store.Path
		if path == "" {
			path = filepath.Join(ctx.DataDir, defaultDBFile)
		}
		store, err := openStore(path, m.config.Store.walEnabled(), m.config.Store.BusyTimeout)
		if err != nil {
			return err
		}
		m.store = store
	}

	m.bundle = m.buildBundle()

	m.logger.Info("audit module provisioned",
		"path", m.config.Path,
		"store", m.config.Store.Enabled,
	)
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	return m.config.validate()
}

// Registrables implements core.HookProvider.
func (m *Module) Registrables() []hook.Registrable {
	return []hook.Registrable{m.bundle}
}

// Stop implements core.Stopper.
func (m *Module) Stop(_ context.Context) error {
	if m.store != nil {
		if err := m.store.close(); err != nil {
			return err
		}
	}
	if m.sink != nil {
		return m.sink.Close()
	}
	return nil
}

// buildBundle wires the observer handlers. All run permissive so audit
// failures never block the host application.
func (m *Module) buildBundle() *hook.Bundle {
	b := hook.NewBundle("audit")

	b.Handle(hook.GenerationPostCallKind, hook.Typed(m.onGeneration),
		hook.WithMode(hook.Permissive))
	b.Handle(hook.ToolPostInvokeKind, hook.Typed(m.onTool),
		hook.WithMode(hook.Permissive))
	b.Handle(hook.ComponentPostErrorKind, hook.Typed(m.onComponentError),
		hook.WithMode(hook.Permissive))
	b.Handle(hook.ErrorOccurredKind, hook.Typed(m.onError),
		hook.WithMode(hook.Permissive))

	return b
}

func (m *Module) onGeneration(_ context.Context, _ *hook.Invocation, p hook.GenerationPostCall) (*hook.Result, error) {
	m.record(Entry{
		Hook:      string(p.Hook),
		RequestID: p.RequestID,
		SessionID: p.SessionID,
		Detail: map[string]any{
			"finish_reason": p.FinishReason,
			"latency_ms":    p.LatencyMS,
			"token_usage":   p.TokenUsage,
		},
	})
	return nil, nil
}

func (m *Module) onTool(_ context.Context, _ *hook.Invocation, p hook.ToolPostInvoke) (*hook.Result, error) {
	detail := map[string]any{
		"tool_name":         p.ToolName,
		"success":           p.Success,
		"execution_time_ms": p.ExecutionTimeMS,
	}
	if p.Err != nil {
		detail["error"] = p.Err.Error()
	}
	m.record(Entry{
		Hook:      string(p.Hook),
		RequestID: p.RequestID,
		SessionID: p.SessionID,
		Detail:    detail,
	})
	return nil, nil
}

func (m *Module) onComponentError(ctx context.Context, _ *hook.Invocation, p hook.ComponentPostError) (*hook.Result, error) {
	detail := map[string]any{
		"component_type": p.ComponentType,
		"error_type":     p.ErrorType,
	}
	msg := ""
	if p.Err != nil {
		msg = p.Err.Error()
		detail["error"] = msg
	}
	m.record(Entry{
		Hook:      string(p.Hook),
		RequestID: p.RequestID,
		SessionID: p.SessionID,
		Detail:    detail,
	})

	if m.store != nil {
		rec := ErrorRecord{
			OccurredAt: p.Timestamp,
			Hook:       string(p.Hook),
			RequestID:  p.RequestID,
			SessionID:  p.SessionID,
			ErrorType:  p.ErrorType,
			Message:    msg,
		}
		if err := m.store.insert(ctx, rec); err != nil {
			m.logger.Error("audit store insert failed", "error", err)
		}
	}
	return nil, nil
}

// onError handles the generic error_occurred envelope. The event details
// ride through to the JSONL record and, when present, into the store.
func (m *Module) onError(ctx context.Context, _ *hook.Invocation, p hook.Event) (*hook.Result, error) {
	m.record(Entry{
		Hook:      string(p.Hook),
		RequestID: p.RequestID,
		SessionID: p.SessionID,
		Detail:    p.Details,
	})

	if m.store != nil {
		rec := ErrorRecord{
			OccurredAt: p.Timestamp,
			Hook:       string(p.Hook),
			RequestID:  p.RequestID,
			SessionID:  p.SessionID,
		}
		if v, ok := p.Details["error_type"].(string); ok {
			rec.ErrorType = v
		}
		if v, ok := p.Details["message"].(string); ok {
			rec.Message = v
		}
		if err := m.store.insert(ctx, rec); err != nil {
			m.logger.Error("audit store insert failed", "error", err)
		}
	}
	return nil, nil
}

func (m *Module) record(e Entry) {
	if err := m.writer.write(e); err != nil {
		m.logger.Error("audit write failed", "error", err)
	}
}

// RecentErrors returns up to limit persisted error records, newest first.
// Returns nil when the store is disabled.
func (m *Module) RecentErrors(ctx context.Context, limit int) ([]ErrorRecord, error) {
	if m.store == nil {
		return nil, nil
	}
	return m.store.recent(ctx, limit)
}
