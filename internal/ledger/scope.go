package ledger

import (
	"os"
	"path/filepath"
)

// ScopeKind distinguishes the two allow-once scopes: a whole VCS
// checkout, or a single directory.
type ScopeKind int

const (
	ScopeProject ScopeKind = iota
	ScopeCwd
)

// Scope is recorded at Deny time and never reinterpreted later: an
// exception moves with its project root only
// if the project is reopened at the same path.
type Scope struct {
	Kind ScopeKind
	Root string // project root for ScopeProject, invoking directory for ScopeCwd
}

func (s Scope) String() string {
	if s.Kind == ScopeProject {
		return "project:" + s.Root
	}
	return "cwd:" + s.Root
}

// vcsMarkers are the directory names that mark a VCS checkout root,
// walked upward from the invoking directory.
var vcsMarkers = []string{".git", ".hg", ".svn"}

// ResolveScope walks upward from dir looking for a VCS root marker; if
// found, the scope is Project(root), otherwise Cwd(dir).
func ResolveScope(dir string) Scope {
	if root, ok := findVCSRoot(dir); ok {
		return Scope{Kind: ScopeProject, Root: root}
	}
	return Scope{Kind: ScopeCwd, Root: dir}
}

func findVCSRoot(dir string) (string, bool) {
	current := dir
	for {
		for _, marker := range vcsMarkers {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return current, true
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// Contains reports whether invokingDir falls within this scope: a Cwd
// scope matches only an equal invoking directory; a Project scope
// matches any directory whose own VCS-root walk returns the stored
// root.
func (s Scope) Contains(invokingDir string) bool {
	if s.Kind == ScopeCwd {
		return s.Root == invokingDir
	}
	root, ok := findVCSRoot(invokingDir)
	return ok && root == s.Root
}
