package cmd

import (
	"os"
	"path/filepath"

	"github.com/dgerlanc/dcg/internal/allowlist"
	"github.com/dgerlanc/dcg/internal/config"
	"github.com/dgerlanc/dcg/internal/constants"
	"github.com/dgerlanc/dcg/internal/hook"
	"github.com/dgerlanc/dcg/internal/ledger"
)

// buildEngine assembles a hook.Engine from the global configuration,
// the layered allowlist rooted at cwd, and the ledger store paths (each
// overridable by its own environment variable).
func buildEngine() (*hook.Engine, error) {
	cfg := config.Get()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	globalAllowlistPath := ""
	if dir, err := config.Dir(); err == nil {
		globalAllowlistPath = filepath.Join(dir, constants.AllowlistFileName)
	}

	projectAllowlistPath := ""
	if scope := ledger.ResolveScope(cwd); scope.Kind == ledger.ScopeProject {
		projectAllowlistPath = filepath.Join(scope.Root, constants.ProjectConfigDir, constants.AllowlistFileName)
	}

	la := allowlist.LoadLayered(projectAllowlistPath, globalAllowlistPath)

	pendingPath, err := pendingStorePath()
	if err != nil {
		return nil, err
	}
	activePath, err := activeStorePath()
	if err != nil {
		return nil, err
	}

	pending := ledger.NewPendingStore(pendingPath)
	active := ledger.NewActiveStore(activePath)

	return hook.NewEngine(cfg, la, pending, active), nil
}

func pendingStorePath() (string, error) {
	if p := os.Getenv(constants.EnvPendingPath); p != "" {
		return p, nil
	}
	dir, err := config.EnsureDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.PendingFileName), nil
}

func activeStorePath() (string, error) {
	if p := os.Getenv(constants.EnvAllowOncePath); p != "" {
		return p, nil
	}
	dir, err := config.EnsureDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LedgerFileName), nil
}

// invokingDir returns the directory the guard should treat as the
// command's invocation site: always the process cwd for the CLI
// surface (the hook protocol does not pass a separate cwd field).
func invokingDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}
