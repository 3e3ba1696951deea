// Package catalog holds the concrete pack literals shipped with dcg:
// tier-core packs for the tools an agent invokes constantly (git,
// filesystem, npm, docker), and tier-extended packs for less frequent
// but higher-blast-radius surfaces (kubernetes, databases, secrets
// managers, CDN/DNS providers, system administration, and remote
// execution). Every pack here is pure data; no pattern is compiled
// until the evaluator first exercises it.
package catalog

import (
	"github.com/dgerlanc/dcg/internal/constants"
	"github.com/dgerlanc/dcg/internal/packs"
)

func gitPack() *packs.Pack {
	return &packs.Pack{
		ID:          "core.git",
		DisplayName: "Git",
		Description: "Destructive history and working-tree operations.",
		Tier:        constants.TierCore,
		Keywords:    []string{"git"},
		Safe: []*packs.SafePatternSpec{
			{Name: "status", Pattern: `^\s*git\s+(status|log|diff|show|branch|fetch|blame)\b`},
			{Name: "add", Pattern: `^\s*git\s+add\b`},
			{Name: "commit", Pattern: `^\s*git\s+commit\b`},
		},
		Destructive: []*packs.DestructivePatternSpec{
			{
				Name:        "reset-hard",
				Pattern:     `\bgit\s+reset\s+--hard\b`,
				Reason:      "discards uncommitted working-tree and index changes irrecoverably",
				Severity:    packs.SeverityCritical,
				Remediation: "use `git reset` without --hard, or stash changes first",
			},
			{
				Name:        "clean-force",
				Pattern:     `\bgit\s+clean\s+(-[a-z]*f[a-z]*d?[a-z]*|--force)\b`,
				Reason:      "permanently deletes untracked files and directories",
				Severity:    packs.SeverityHigh,
				Remediation: "run `git clean -n` first to preview what would be removed",
			},
			{
				Name:        "force-push",
				Pattern:     `\bgit\s+push\s+.*(--force|-f)\b`,
				Reason:      "overwrites remote history, can discard others' commits",
				Severity:    packs.SeverityCritical,
				Remediation: "use `git push --force-with-lease` and coordinate with collaborators",
			},
			{
				Name:        "branch-delete-force",
				Pattern:     `\bgit\s+branch\s+(-D|--delete\s+--force)\b`,
				Reason:      "force-deletes a branch even if it has unmerged commits",
				Severity:    packs.SeverityMedium,
				Remediation: "use `git branch -d` to require the branch be merged first",
			},
			{
				Name:        "checkout-force",
				Pattern:     `\bgit\s+checkout\s+(-f|--force)\b`,
				Reason:      "discards local modifications when switching branches",
				Severity:    packs.SeverityMedium,
				Remediation: "commit or stash local changes before switching",
			},
			{
				Name:        "filter-branch",
				Pattern:     `\bgit\s+filter-branch\b`,
				Reason:      "rewrites repository history across many commits",
				Severity:    packs.SeverityHigh,
				Remediation: "use `git filter-repo` on a fresh clone and verify before pushing",
			},
		},
	}
}

func filesystemPack() *packs.Pack {
	return &packs.Pack{
		ID:          "core.filesystem",
		DisplayName: "Filesystem",
		Description: "Recursive and permission-widening filesystem operations.",
		Tier:        constants.TierCore,
		Keywords:    []string{"rm", "chmod", "chown", "shred", "mkfs", "dd"},
		Safe: []*packs.SafePatternSpec{
			{Name: "rm-rf-tmp", Pattern: `^\s*rm\s+(-[a-z]*r[a-z]*f[a-z]*|-[a-z]*f[a-z]*r[a-z]*)\s+(/tmp|/var/tmp)(/\S*)?\s*\*?$`},
			{Name: "rm-single-file", Pattern: `^\s*rm\s+[^-][^-]?\S*$`},
		},
		Destructive: []*packs.DestructivePatternSpec{
			{
				Name:        "rm-rf-general",
				Pattern:     `\brm\s+(-[a-z]*r[a-z]*f[a-z]*|-[a-z]*f[a-z]*r[a-z]*|--recursive\s+--force)\b`,
				Reason:      "recursive forced delete with no confirmation",
				Severity:    packs.SeverityHigh,
				Remediation: "delete specific paths, or run with `-i` to confirm each removal",
			},
			{
				Name:        "rm-root",
				Pattern:     `\brm\s+.*(-[a-z]*r[a-z]*f|--recursive).*\s+/\s*($|[^\w.])`,
				Reason:      "recursively deletes from the filesystem root",
				Severity:    packs.SeverityCritical,
				Remediation: "scope the deletion to a specific subdirectory",
			},
			{
				Name:        "chmod-777-recursive",
				Pattern:     `\bchmod\s+(-R|--recursive)\s+(777|a\+rwx)\b`,
				Reason:      "recursively grants world-writable permissions",
				Severity:    packs.SeverityHigh,
				Remediation: "grant only the specific permission bits a tool actually needs",
			},
			{
				Name:        "dd-to-block-device",
				Pattern:     `\bdd\s+.*of=/dev/(sd|nvme|hd|disk)\w*`,
				Reason:      "writes raw bytes directly to a block device, destroying its contents",
				Severity:    packs.SeverityCritical,
				Remediation: "double-check the target device and back up any data first",
			},
			{
				Name:        "mkfs",
				Pattern:     `\bmkfs(\.\w+)?\s+/dev/`,
				Reason:      "formats a block device, destroying any existing filesystem",
				Severity:    packs.SeverityCritical,
				Remediation: "confirm the target device is not in use before formatting",
			},
			{
				Name:        "shred",
				Pattern:     `\bshred\s+.*(-u|--remove)\b`,
				Reason:      "overwrites and unlinks a file, making recovery infeasible",
				Severity:    packs.SeverityHigh,
				Remediation: "only shred files you are certain are no longer needed",
			},
		},
	}
}

func npmPack() *packs.Pack {
	return &packs.Pack{
		ID:          "core.npm",
		DisplayName: "npm / Node package management",
		Description: "Publishing and registry-wide operations for npm packages.",
		Tier:        constants.TierCore,
		Keywords:    []string{"npm", "npx", "yarn", "pnpm"},
		Safe: []*packs.SafePatternSpec{
			{Name: "install", Pattern: `^\s*(npm|yarn|pnpm)\s+(install|i|ci|add|run|test)\b`},
		},
		Destructive: []*packs.DestructivePatternSpec{
			{
				Name:        "npm-publish",
				Pattern:     `\b(npm|yarn|pnpm)\s+publish\b`,
				Reason:      "publishes a package version to the public registry, which cannot be fully retracted",
				Severity:    packs.SeverityHigh,
				Remediation: "publish from CI after review, or use `--dry-run` first",
			},
			{
				Name:        "npm-unpublish",
				Pattern:     `\bnpm\s+unpublish\b`,
				Reason:      "removes a published package version, breaking consumers pinned to it",
				Severity:    packs.SeverityCritical,
				Remediation: "deprecate the version instead of unpublishing it",
			},
			{
				Name:        "npm-token-create",
				Pattern:     `\bnpm\s+token\s+create\b`,
				Reason:      "mints a new registry access token",
				Severity:    packs.SeverityMedium,
				Remediation: "scope the token to the minimum required permissions and a short TTL",
			},
		},
	}
}

func dockerPack() *packs.Pack {
	return &packs.Pack{
		ID:          "core.docker",
		DisplayName: "Docker / container runtime",
		Description: "Container and image operations that can remove running workloads or data volumes.",
		Tier:        constants.TierCore,
		Keywords:    []string{"docker", "docker-compose", "podman"},
		Safe: []*packs.SafePatternSpec{
			{Name: "ps-logs", Pattern: `^\s*(docker|podman)\s+(ps|logs|images|inspect|top)\b`},
		},
		Destructive: []*packs.DestructivePatternSpec{
			{
				Name:        "system-prune",
				Pattern:     `\b(docker|podman)\s+system\s+prune\s+.*(-a|--all)\b`,
				Reason:      "removes all unused images, containers, networks, and (with -a) anything not actively running",
				Severity:    packs.SeverityHigh,
				Remediation: "prune with filters, or review `docker system df` first",
			},
			{
				Name:        "volume-rm",
				Pattern:     `\b(docker|podman)\s+volume\s+(rm|prune)\b`,
				Reason:      "deletes named volumes and the persistent data inside them",
				Severity:    packs.SeverityHigh,
				Remediation: "back up volume contents before removing them",
			},
			{
				Name:        "compose-down-volumes",
				Pattern:     `\bdocker-compose\s+down\s+.*(-v|--volumes)\b`,
				Reason:      "tears down the compose stack and deletes its named volumes",
				Severity:    packs.SeverityHigh,
				Remediation: "run `docker-compose down` without -v to keep volumes",
			},
			{
				Name:        "rm-force-running",
				Pattern:     `\b(docker|podman)\s+rm\s+.*(-f|--force)\b`,
				Reason:      "force-removes a container, killing it first if still running",
				Severity:    packs.SeverityMedium,
				Remediation: "stop the container cleanly before removing it",
			},
		},
	}
}
