// Package allowlist implements the allowlist layer: global and
// per-project TOML config files whose entries reference rule ids (with
// an optional pack-scoped `*` wildcard) and convert a candidate denial
// to Allow.
//
// An entry can carry absolute expiration (expires_at), relative
// expiration (ttl), environment-variable conditions, and per-path glob
// restrictions — it can be scoped to "only when CI=true" or "only
// under /workspace/*" rather than unconditionally.
package allowlist

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/dgerlanc/dcg/internal/logger"
)

var (
	errEmptyTTL       = errors.New("ttl cannot be empty")
	errInvalidTTL     = errors.New("ttl must start with a positive number")
	errInvalidTTLUnit = errors.New("ttl has an unrecognized unit")
)

// Layer identifies where an entry was loaded from, for precedence and
// attribution in the verdict.
type Layer int

const (
	LayerProject Layer = iota
	LayerGlobal
)

func (l Layer) String() string {
	if l == LayerProject {
		return "project"
	}
	return "global"
}

// Entry is one allowlist rule.
type Entry struct {
	Rule             string            `toml:"rule"`
	Reason           string            `toml:"reason"`
	RiskAcknowledged bool              `toml:"risk_acknowledged"`
	ExpiresAt        string            `toml:"expires_at"`
	TTL              string            `toml:"ttl"`
	Session          bool              `toml:"session"`
	Conditions       map[string]string `toml:"conditions"`
	Paths            []string          `toml:"paths"`
	AddedAt          string            `toml:"added_at"`
	AddedBy          string            `toml:"added_by"`

	packID      string
	patternName string
}

type fileModel struct {
	Allow []Entry `toml:"allow"`
}

// packAndPattern returns the entry's rule split into its two
// halves, computed once when the file is loaded.
func (e *Entry) packAndPattern() (string, string) {
	return e.packID, e.patternName
}

// Load parses one allowlist TOML file. A missing file is not an error
// — it is treated as an empty layer rather than failing startup. A
// malformed file, or individual malformed
// entries, are logged and skipped rather than aborting the load.
func Load(path string) []Entry {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var model fileModel
	if _, err := toml.Decode(string(data), &model); err != nil {
		logger.Warn("allowlist file failed to parse, skipping", "path", path, "error", err)
		return nil
	}
	out := make([]Entry, 0, len(model.Allow))
	for i := range model.Allow {
		e := model.Allow[i]
		packID, patternName, ok := splitRule(e.Rule)
		if !ok {
			logger.Warn("allowlist entry has malformed rule, skipping", "path", path, "index", i, "rule", e.Rule)
			continue
		}
		if patternName == "*" && !e.RiskAcknowledged {
			logger.Warn("allowlist entry wildcards a whole pack without risk_acknowledged, skipping", "path", path, "rule", e.Rule)
			continue
		}
		e.packID = packID
		e.patternName = patternName
		out = append(out, e)
	}
	return out
}

func splitRule(rule string) (packID, patternName string, ok bool) {
	idx := strings.LastIndexByte(rule, ':')
	if idx < 0 {
		return "", "", false
	}
	packID = strings.TrimSpace(rule[:idx])
	patternName = strings.TrimSpace(rule[idx+1:])
	if packID == "" || patternName == "" {
		return "", "", false
	}
	return packID, patternName, true
}

// LayeredAllowlist holds the project and global layers, consulted in
// that precedence order.
type LayeredAllowlist struct {
	Project []Entry
	Global  []Entry
}

// LoadLayered loads both layers from disk. Either path may not exist;
// a missing file is an empty layer, never an error.
func LoadLayered(projectPath, globalPath string) *LayeredAllowlist {
	return &LayeredAllowlist{
		Project: Load(projectPath),
		Global:  Load(globalPath),
	}
}

// Hit is a successful allowlist match, with its layer for attribution.
type Hit struct {
	Layer Layer
	Entry Entry
}

// Match looks up ruleID ("pack_id:pattern_name") against both layers
// in precedence order, skipping entries that are expired, have unmet
// conditions, or whose path restriction excludes cwd.
func (la *LayeredAllowlist) Match(packID, patternName, cwd string) (Hit, bool) {
	if hit, ok := matchLayer(LayerProject, la.Project, packID, patternName, cwd); ok {
		return hit, true
	}
	if hit, ok := matchLayer(LayerGlobal, la.Global, packID, patternName, cwd); ok {
		return hit, true
	}
	return Hit{}, false
}

func matchLayer(layer Layer, entries []Entry, packID, patternName, cwd string) (Hit, bool) {
	for _, e := range entries {
		ePack, ePattern := e.packAndPattern()
		if ePack != packID {
			continue
		}
		if ePattern != patternName && ePattern != "*" {
			continue
		}
		if !isValid(e, cwd) {
			continue
		}
		return Hit{Layer: layer, Entry: e}, true
	}
	return Hit{}, false
}

func isValid(e Entry, cwd string) bool {
	if isExpired(e) {
		return false
	}
	if !conditionsMet(e) {
		return false
	}
	if !pathMatches(e, cwd) {
		return false
	}
	return true
}

func isExpired(e Entry) bool {
	if e.ExpiresAt != "" {
		return isTimestampExpired(e.ExpiresAt)
	}
	if e.TTL != "" {
		return isTTLExpired(e.TTL, e.AddedAt)
	}
	if e.Session {
		// Session scoping requires session-lifetime tracking this
		// implementation does not carry; treat as not expired until
		// that tracking exists.
		return false
	}
	return false
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func isTimestampExpired(value string) bool {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Before(time.Now())
		}
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		endOfDay := t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		return endOfDay.Before(time.Now())
	}
	// Unparseable timestamp: fail closed so a typo doesn't create a
	// permanent allowlist entry.
	return true
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func isTTLExpired(ttl, addedAt string) bool {
	if addedAt == "" {
		return true
	}
	added, ok := parseTimestamp(addedAt)
	if !ok {
		return true
	}
	d, err := ParseDuration(ttl)
	if err != nil {
		return true
	}
	return added.Add(d).Before(time.Now())
}

// ParseDuration parses the TTL grammar: a positive integer
// followed by a unit (s/m/h/d/w and their longer spellings).
func ParseDuration(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, errEmptyTTL
	}
	digitEnd := 0
	for digitEnd < len(s) && s[digitEnd] >= '0' && s[digitEnd] <= '9' {
		digitEnd++
	}
	if digitEnd == 0 {
		return 0, errInvalidTTL
	}
	num, err := strconv.ParseInt(s[:digitEnd], 10, 64)
	if err != nil || num <= 0 {
		return 0, errInvalidTTL
	}
	unit := strings.TrimSpace(s[digitEnd:])
	var base time.Duration
	switch unit {
	case "s", "sec", "secs", "second", "seconds":
		base = time.Second
	case "m", "min", "mins", "minute", "minutes":
		base = time.Minute
	case "h", "hr", "hrs", "hour", "hours":
		base = time.Hour
	case "d", "day", "days":
		base = 24 * time.Hour
	case "w", "wk", "wks", "week", "weeks":
		base = 7 * 24 * time.Hour
	default:
		return 0, errInvalidTTLUnit
	}
	return time.Duration(num) * base, nil
}

func conditionsMet(e Entry) bool {
	for key, expected := range e.Conditions {
		if os.Getenv(key) != expected {
			return false
		}
	}
	return true
}

func pathMatches(e Entry, cwd string) bool {
	if len(e.Paths) == 0 || cwd == "" {
		return true
	}
	for _, pattern := range e.Paths {
		if pattern == "*" {
			return true
		}
		ok, err := doublestar.Match(pattern, cwd)
		if err != nil {
			logger.Warn("invalid glob pattern in allowlist entry, skipping", "pattern", pattern, "error", err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
