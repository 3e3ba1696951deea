// Package constants defines shared constants used across the dcg codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables recognized by dcg.
const (
	EnvConfigDir       = "DCG_CONFIG"
	EnvPacks           = "DCG_PACKS"
	EnvAllowOnceSecret = "DCG_ALLOW_ONCE_SECRET"
	EnvPendingPath     = "DCG_PENDING_EXCEPTIONS_PATH"
	EnvAllowOncePath   = "DCG_ALLOW_ONCE_PATH"
	EnvNoRich          = "DCG_NO_RICH"
	EnvNoColor         = "NO_COLOR"
	EnvCI              = "CI"
)

// Application paths and file names.
const (
	AppName           = "dcg"
	ClaudeConfigDir   = ".claude"
	XDGConfigSubdir   = ".config"
	ConfigFileName    = "config.toml"
	AllowlistFileName = "allow.toml"
	ProjectConfigDir  = ".dcg"
	PendingFileName   = "pending_exceptions.jsonl"
	LedgerFileName    = "allow_once.jsonl"
	AuditLogFileName  = "dcg.log"
)

// Tier groups packs for deterministic enablement order. Core packs
// are enabled before extended packs; within a tier, enablement order is
// lexicographic by pack id. This ordering is load-bearing: the first
// matching destructive pattern wins, so changing it changes user-visible
// decisions.
type Tier int

const (
	TierCore Tier = iota
	TierExtended
)

// ShortCodeHexLen is the length, in hex characters, of an allow-once
// short code.
const ShortCodeHexLen = 4

// AllowOnceTTLHours is the fixed lifetime of an allow-once exception and
// of a pending short code.
const AllowOnceTTLHours = 24

// Default performance budgets.
const (
	FastPathBudgetMs = 5
	DeepScanBudgetMs = 50
	HeredocBudgetMs  = 40
)

// AuditRotateBytes is the size threshold at which the audit log rotates
// to a compressed file.
const AuditRotateBytes = 10 << 20 // 10 MiB
