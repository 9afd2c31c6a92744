// Package main is the entry point for the graft CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/davrell/graft/internal/admin"
	"github.com/davrell/graft/internal/config"
	"github.com/davrell/graft/internal/core"
	"github.com/davrell/graft/internal/metrics"
	"github.com/davrell/graft/pkg/hook"

	// Built-in plugin modules.
	_ "github.com/davrell/graft/modules/audit"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "graft",
		Short:         "Hook dispatch engine for LLM applications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), serveCmd(), hooksCmd(), configCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and compiled plugin modules",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("graft %s (commit: %s, built: %s)\n", version, commit, date)
			mods := core.GetModules()
			if len(mods) == 0 {
				fmt.Println("\nNo compiled plugin modules.")
				return
			}
			fmt.Println("\nCompiled plugin modules:")
			for _, mod := range mods {
				fmt.Printf("  %s\n", mod.ID)
			}
		},
	}
}

func hooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hooks",
		Short: "List the extension-point catalog",
		Run: func(_ *cobra.Command, _ []string) {
			for _, k := range hook.Kinds() {
				fmt.Println(k)
				for _, f := range hook.Fields(k) {
					fmt.Printf("  %s\n", f)
				}
			}
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start graft with all configured plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			if cfgPath == "" {
				resolved, err := resolveConfigPath()
				if err != nil {
					return err
				}
				cfgPath = resolved
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))

			reg := prometheus.NewRegistry()
			obs, err := metrics.New(reg)
			if err != nil {
				return err
			}

			opts := []hook.ManagerOption{
				hook.WithLogger(logger),
				hook.WithObserver(obs),
			}
			if cfg.Timeout > 0 {
				opts = append(opts, hook.WithTimeout(cfg.Timeout))
			}
			if cfg.DefaultPolicy == config.PolicyAllow {
				opts = append(opts, hook.WithDefaultAllow())
			}
			hooks := hook.New(opts...)
			defer hooks.Shutdown()

			appCtx := core.NewAppContext(logger, hooks, defaultDataDir())
			appCtx = appCtx.WithModuleConfigs(cfg.Plugins)

			app := core.NewApp(appCtx)
			if err := app.LoadModules(config.Resolve(cfg)); err != nil {
				return err
			}

			if cfg.Admin.Listen != "" {
				srv := admin.New(hooks, admin.WithLogger(logger), admin.WithGatherer(reg))
				if err := srv.Start(cfg.Admin.Listen); err != nil {
					return err
				}
				defer func() { _ = srv.Stop(context.Background()) }()
			}

			return app.Run()
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <path>",
		Short: "Validate configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))
			hooks := hook.New(hook.WithLogger(logger))
			defer hooks.Shutdown()

			appCtx := core.NewAppContext(logger, hooks, defaultDataDir())
			appCtx = appCtx.WithModuleConfigs(cfg.Plugins)

			app := core.NewApp(appCtx)
			ids := config.Resolve(cfg)
			if err := app.LoadModules(ids); err != nil {
				return err
			}
			defer app.Stop()

			fmt.Printf("Configuration OK (%d plugins)\n", len(ids))
			for _, id := range ids {
				fmt.Printf("  %s\n", id)
			}
			return nil
		},
	})
	return cmd
}

// resolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/graft/graft.yaml → ./graft.yaml
func resolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "graft", "graft.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "graft", "graft.yaml"))
	}

	candidates = append(candidates, "graft.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

func defaultDataDir() string {
	if dir, ok := os.LookupEnv("XDG_DATA_HOME"); ok {
		return filepath.Join(dir, "graft")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "graft", "data")
}
