package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graft.yaml")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Basic(t *testing.T) {
	path := writeConfig(t, `
version: "1"
timeout: 2s
default_policy: deny
admin:
  listen: "127.0.0.1:7466"
plugins:
  plugin.audit:
    path: /var/log/graft/audit.jsonl
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != "1" {
		t.Errorf("version = %q", cfg.Version)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
	if cfg.Admin.Listen != "127.0.0.1:7466" {
		t.Errorf("admin.listen = %q", cfg.Admin.Listen)
	}
	if _, ok := cfg.Plugins["plugin.audit"]; !ok {
		t.Error("plugin section missing")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("GRAFT_TEST_POLICY", "allow")
	path := writeConfig(t, `
version: "1"
default_policy: ${GRAFT_TEST_POLICY}
admin:
  listen: "${GRAFT_TEST_LISTEN:-127.0.0.1:7466}"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultPolicy != "allow" {
		t.Errorf("default_policy = %q, want allow", cfg.DefaultPolicy)
	}
	if cfg.Admin.Listen != "127.0.0.1:7466" {
		t.Errorf("default not applied: %q", cfg.Admin.Listen)
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	path := writeConfig(t, `
version: "1"
default_policy: ${GRAFT_TEST_DEFINITELY_UNSET}
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected unresolved variable error")
	}
	if !strings.Contains(err.Error(), "GRAFT_TEST_DEFINITELY_UNSET") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GRAFT_TIMEOUT", "9s")
	t.Setenv("GRAFT_DEFAULT_POLICY", "allow")
	path := writeConfig(t, `
version: "1"
timeout: 1s
default_policy: deny
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != 9*time.Second {
		t.Errorf("timeout = %s, want override 9s", cfg.Timeout)
	}
	if cfg.DefaultPolicy != "allow" {
		t.Errorf("default_policy = %q, want override allow", cfg.DefaultPolicy)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolve_SortedIDs(t *testing.T) {
	path := writeConfig(t, `
version: "1"
plugins:
  plugin.zeta: {}
  plugin.alpha: {}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ids := Resolve(cfg)
	if len(ids) != 2 || ids[0] != "plugin.alpha" || ids[1] != "plugin.zeta" {
		t.Errorf("Resolve = %v, want sorted", ids)
	}
}
