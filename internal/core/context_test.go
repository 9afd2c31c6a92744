package core

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/davrell/graft/pkg/hook"
)

// fakeModule implements the full lifecycle for tests. Flags record which
// lifecycle methods ran.
type fakeModule struct {
	id ModuleID

	configured  bool
	provisioned bool
	validated   bool
	started     bool
	stopped     bool

	cfg          map[string]string
	configureErr error
	provisionErr error
	validateErr  error
	startErr     error

	registrables []hook.Registrable
}

func (f *fakeModule) ModuleInfo() ModuleInfo {
	return ModuleInfo{
		ID:  f.id,
		New: func() Module { return f },
	}
}

func (f *fakeModule) Configure(node *yaml.Node) error {
	f.configured = true
	if f.configureErr != nil {
		return f.configureErr
	}
	return node.Decode(&f.cfg)
}

func (f *fakeModule) Provision(_ *AppContext) error {
	f.provisioned = true
	return f.provisionErr
}

func (f *fakeModule) Validate() error {
	f.validated = true
	return f.validateErr
}

func (f *fakeModule) Start() error {
	f.started = true
	return f.startErr
}

func (f *fakeModule) Stop(_ context.Context) error {
	f.stopped = true
	return nil
}

func (f *fakeModule) Registrables() []hook.Registrable {
	return f.registrables
}

func yamlNode(t *testing.T, src string) yaml.Node {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	return *doc.Content[0]
}

func TestModuleID_Namespace(t *testing.T) {
	if got := ModuleID("plugin.audit").Namespace(); got != "plugin" {
		t.Errorf("Namespace = %q, want plugin", got)
	}
	if got := ModuleID("bare").Namespace(); got != "bare" {
		t.Errorf("Namespace = %q, want bare", got)
	}
}

func TestRegisterModule_DuplicatePanics(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	RegisterModule(&fakeModule{id: "plugin.dup"})
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	RegisterModule(&fakeModule{id: "plugin.dup"})
}

func TestGetModulesByNamespace(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	RegisterModule(&fakeModule{id: "plugin.audit"})
	RegisterModule(&fakeModule{id: "plugin.guard"})
	RegisterModule(&fakeModule{id: "store.sqlite"})

	got := GetModulesByNamespace("plugin")
	if len(got) != 2 {
		t.Fatalf("got %d modules, want 2", len(got))
	}
	if got[0].ID != "plugin.audit" || got[1].ID != "plugin.guard" {
		t.Errorf("modules not sorted by ID: %v, %v", got[0].ID, got[1].ID)
	}
}

func TestLoadModule_FullLifecycle(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	fm := &fakeModule{id: "plugin.audit"}
	RegisterModule(fm)

	ctx := NewAppContext(slog.Default(), nil, t.TempDir()).
		WithModuleConfigs(map[string]yaml.Node{
			"plugin.audit": yamlNode(t, "path: /tmp/audit.log"),
		})

	mod, err := ctx.LoadModule("plugin.audit")
	if err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
	if mod != Module(fm) {
		t.Error("LoadModule returned a different instance")
	}
	if !fm.configured || !fm.provisioned || !fm.validated {
		t.Errorf("lifecycle incomplete: configured=%v provisioned=%v validated=%v",
			fm.configured, fm.provisioned, fm.validated)
	}
	if fm.cfg["path"] != "/tmp/audit.log" {
		t.Errorf("config not decoded: %v", fm.cfg)
	}
}

func TestLoadModule_UnknownID(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	ctx := NewAppContext(slog.Default(), nil, t.TempDir())
	if _, err := ctx.LoadModule("plugin.missing"); err == nil {
		t.Fatal("expected error for unknown module")
	}
}

func TestLoadModule_ConfigureErrorStopsLifecycle(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	fm := &fakeModule{id: "plugin.bad", configureErr: errors.New("bad config")}
	RegisterModule(fm)

	ctx := NewAppContext(slog.Default(), nil, t.TempDir()).
		WithModuleConfigs(map[string]yaml.Node{
			"plugin.bad": yamlNode(t, "x: 1"),
		})

	if _, err := ctx.LoadModule("plugin.bad"); err == nil {
		t.Fatal("expected configure error")
	}
	if fm.provisioned {
		t.Error("provision ran after configure failure")
	}
}

func TestApp_LoadRegistersHandlersUnderModuleScope(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	var fired int
	b := hook.NewBundle("audit").Handle(hook.GenerationPostCallKind,
		func(_ context.Context, _ *hook.Invocation, _ hook.Payload) (*hook.Result, error) {
			fired++
			return nil, nil
		})

	fm := &fakeModule{id: "plugin.audit", registrables: []hook.Registrable{b}}
	RegisterModule(fm)

	hooks := hook.New()
	app := NewApp(NewAppContext(slog.Default(), hooks, t.TempDir()))
	if err := app.LoadModules([]string{"plugin.audit"}); err != nil {
		t.Fatalf("LoadModules: %v", err)
	}

	if _, _, err := hooks.Invoke(context.Background(), hook.GenerationPostCallKind, hook.GenerationPostCall{}); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if fired != 1 {
		t.Fatalf("handler fired %d times, want 1", fired)
	}

	app.Stop()
	if _, _, err := hooks.Invoke(context.Background(), hook.GenerationPostCallKind, hook.GenerationPostCall{}); err != nil {
		t.Fatalf("invoke after stop: %v", err)
	}
	if fired != 1 {
		t.Error("handler still registered after Stop")
	}
}

func TestApp_StartFailureStopsStartedModules(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	good := &fakeModule{id: "plugin.good"}
	bad := &fakeModule{id: "plugin.bad", startErr: errors.New("boom")}
	RegisterModule(good)
	RegisterModule(bad)

	app := NewApp(NewAppContext(slog.Default(), hook.New(), t.TempDir()))
	if err := app.LoadModules([]string{"plugin.good", "plugin.bad"}); err != nil {
		t.Fatalf("LoadModules: %v", err)
	}
	if err := app.Start(); err == nil {
		t.Fatal("expected start failure")
	}
	if !good.stopped {
		t.Error("previously started module was not stopped after failure")
	}
}

func TestForModule_KeepsSharedResources(t *testing.T) {
	hooks := hook.New()
	ctx := NewAppContext(slog.Default(), hooks, "/data")
	sub := ctx.ForModule("plugin.audit")
	if sub.Hooks != hooks {
		t.Error("hook manager not carried to module context")
	}
	if sub.DataDir != "/data" {
		t.Errorf("DataDir = %q", sub.DataDir)
	}
}
