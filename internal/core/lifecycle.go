package core

import (
	"context"

	"gopkg.in/yaml.v3"

	"github.com/davrell/graft/pkg/hook"
)

// Configurable is implemented by modules that accept YAML configuration.
// Called after instantiation and before Provision().
// The node contains the raw YAML for this module's config section.
type Configurable interface {
	Configure(node *yaml.Node) error
}

// Provisioner is implemented by modules that need setup after
// instantiation. This is where modules should set defaults, open files
// or databases, and build their handler tables.
type Provisioner interface {
	Provision(ctx *AppContext) error
}

// Validator is implemented by modules that can verify their configuration
// is complete and correct. Called after Provision().
// Validate should be read-only, no side effects.
type Validator interface {
	Validate() error
}

// HookProvider is implemented by modules that contribute hook handlers.
// The returned items (handlers, bundles, sets) are registered with the
// hook manager under the module's own scope after a successful load, and
// deregistered when the module is unloaded.
type HookProvider interface {
	Registrables() []hook.Registrable
}

// Starter is implemented by modules that need to start background work
// (goroutines, listeners, connections). Called after all modules are
// loaded and their handlers registered.
type Starter interface {
	Start() error
}

// Stopper is implemented by modules that need to clean up resources.
// Called during shutdown in reverse order of Start().
type Stopper interface {
	Stop(ctx context.Context) error
}
