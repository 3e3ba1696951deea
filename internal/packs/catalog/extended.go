package catalog

import (
	"github.com/dgerlanc/dcg/internal/constants"
	"github.com/dgerlanc/dcg/internal/packs"
)

func kubernetesPack() *packs.Pack {
	return &packs.Pack{
		ID:          "extended.kubernetes",
		DisplayName: "Kubernetes",
		Description: "Cluster-wide deletions and workload scale-downs via kubectl/helm.",
		Tier:        constants.TierExtended,
		Keywords:    []string{"kubectl", "helm", "kubens", "kustomize"},
		Safe: []*packs.SafePatternSpec{
			{Name: "get-describe", Pattern: `^\s*kubectl\s+(get|describe|logs|top|explain)\b`},
		},
		Destructive: []*packs.DestructivePatternSpec{
			{
				Name:        "delete-namespace",
				Pattern:     `\bkubectl\s+delete\s+(namespace|ns)\b`,
				Reason:      "deletes a namespace and every resource inside it",
				Severity:    packs.SeverityCritical,
				Remediation: "delete specific resources instead of the whole namespace",
			},
			{
				Name:        "delete-all",
				Pattern:     `\bkubectl\s+delete\s+.*--all\b`,
				Reason:      "deletes every resource of the given kind in scope",
				Severity:    packs.SeverityHigh,
				Remediation: "target resources by name or label selector",
			},
			{
				Name:        "scale-zero",
				Pattern:     `\bkubectl\s+scale\s+.*--replicas[= ]0\b`,
				Reason:      "scales a workload to zero replicas, taking it offline",
				Severity:    packs.SeverityMedium,
				Remediation: "confirm the workload is actually meant to be taken down",
			},
			{
				Name:        "helm-uninstall",
				Pattern:     `\bhelm\s+(uninstall|delete)\b`,
				Reason:      "removes a release and, unless --keep-history is set, its history",
				Severity:    packs.SeverityHigh,
				Remediation: "consider `helm rollback` instead if the goal is to undo a bad deploy",
			},
		},
	}
}

func databasePack() *packs.Pack {
	return &packs.Pack{
		ID:          "extended.database",
		DisplayName: "Relational database clients",
		Description: "Schema and table-destroying statements issued from the shell.",
		Tier:        constants.TierExtended,
		Keywords:    []string{"psql", "mysql", "DROP", "TRUNCATE", "sqlite3"},
		Safe: []*packs.SafePatternSpec{
			{Name: "select", Pattern: `(?i)^\s*(psql|mysql|sqlite3)\b.*-c\s+['"]?\s*select\b`},
		},
		Destructive: []*packs.DestructivePatternSpec{
			{
				Name:        "drop-database",
				Pattern:     `(?i)\bdrop\s+database\b`,
				Reason:      "permanently deletes an entire database and all its tables",
				Severity:    packs.SeverityCritical,
				Remediation: "take a backup/snapshot before dropping a database",
			},
			{
				Name:        "drop-table",
				Pattern:     `(?i)\bdrop\s+table\b`,
				Reason:      "permanently deletes a table and its data",
				Severity:    packs.SeverityHigh,
				Remediation: "rename the table first if you want a safety net",
			},
			{
				Name:        "truncate-table",
				Pattern:     `(?i)\btruncate\s+table\b`,
				Reason:      "deletes every row in a table without a WHERE clause to scope it",
				Severity:    packs.SeverityHigh,
				Remediation: "use a scoped DELETE with a WHERE clause if only some rows should go",
			},
			{
				Name:        "delete-no-where",
				Pattern:     `(?i)\bdelete\s+from\s+\w+\s*;`,
				Reason:      "deletes every row in a table, no WHERE clause present",
				Severity:    packs.SeverityHigh,
				Remediation: "add a WHERE clause to scope the deletion",
			},
		},
	}
}

func secretsPack() *packs.Pack {
	return &packs.Pack{
		ID:          "extended.secrets",
		DisplayName: "Secrets managers",
		Description: "Operations that delete or overwrite secrets in vault/cloud secret stores.",
		Tier:        constants.TierExtended,
		Keywords:    []string{"vault", "aws", "secretsmanager", "sops"},
		Safe: []*packs.SafePatternSpec{
			{Name: "read", Pattern: `\bvault\s+(read|kv\s+get)\b`},
		},
		Destructive: []*packs.DestructivePatternSpec{
			{
				Name:        "vault-delete",
				Pattern:     `\bvault\s+(kv\s+)?delete\b`,
				Reason:      "deletes a secret version from vault",
				Severity:    packs.SeverityHigh,
				Remediation: "use `vault kv metadata` to check versioning before deleting",
			},
			{
				Name:        "aws-secret-delete",
				Pattern:     `\baws\s+secretsmanager\s+delete-secret\b`,
				Reason:      "schedules or forces deletion of a secret from AWS Secrets Manager",
				Severity:    packs.SeverityCritical,
				Remediation: "omit --force-delete-without-recovery to keep the recovery window",
			},
			{
				Name:        "aws-kms-schedule-deletion",
				Pattern:     `\baws\s+kms\s+schedule-key-deletion\b`,
				Reason:      "schedules a KMS key for deletion, which makes data encrypted under it unrecoverable after the window",
				Severity:    packs.SeverityCritical,
				Remediation: "disable the key first and confirm nothing still depends on it",
			},
		},
	}
}

func cdnPack() *packs.Pack {
	return &packs.Pack{
		ID:          "extended.cdn",
		DisplayName: "CDN / DNS providers",
		Description: "Cache purges and zone/record deletions against CDN and DNS APIs.",
		Tier:        constants.TierExtended,
		Keywords:    []string{"wrangler", "aws cloudfront", "route53", "doctl"},
		Safe: []*packs.SafePatternSpec{
			{Name: "list", Pattern: `\baws\s+cloudfront\s+list-`},
		},
		Destructive: []*packs.DestructivePatternSpec{
			{
				Name:        "route53-delete-zone",
				Pattern:     `\baws\s+route53\s+delete-hosted-zone\b`,
				Reason:      "deletes a DNS zone and every record inside it",
				Severity:    packs.SeverityCritical,
				Remediation: "export the zone's record set before deleting it",
			},
			{
				Name:        "cloudfront-delete-distribution",
				Pattern:     `\baws\s+cloudfront\s+delete-distribution\b`,
				Reason:      "permanently deletes a CDN distribution",
				Severity:    packs.SeverityHigh,
				Remediation: "disable the distribution first and confirm no traffic depends on it",
			},
		},
	}
}

func systemPack() *packs.Pack {
	return &packs.Pack{
		ID:          "extended.system",
		DisplayName: "System administration",
		Description: "Process, service, and host-level operations that affect the whole machine.",
		Tier:        constants.TierExtended,
		Keywords:    []string{"systemctl", "kill", "shutdown", "reboot", "iptables", "useradd"},
		Safe: []*packs.SafePatternSpec{
			{Name: "status", Pattern: `^\s*systemctl\s+(status|list-units|is-active)\b`},
		},
		Destructive: []*packs.DestructivePatternSpec{
			{
				Name:        "shutdown-now",
				Pattern:     `\b(shutdown|poweroff|halt)\s+(now|-h\s+now)\b`,
				Reason:      "powers off the host immediately",
				Severity:    packs.SeverityCritical,
				Remediation: "schedule a delayed shutdown and notify anyone relying on the host",
			},
			{
				Name:        "reboot",
				Pattern:     `^\s*reboot\b`,
				Reason:      "restarts the host, interrupting whatever is currently running",
				Severity:    packs.SeverityHigh,
				Remediation: "confirm no long-running jobs would be interrupted",
			},
			{
				Name:        "kill-signal-9-all",
				Pattern:     `\bkill\s+(-9|-SIGKILL)\s+-1\b`,
				Reason:      "sends SIGKILL to every process the caller can signal",
				Severity:    packs.SeverityCritical,
				Remediation: "target a specific PID instead of -1",
			},
			{
				Name:        "iptables-flush",
				Pattern:     `\biptables\s+(-F|--flush)\b`,
				Reason:      "removes all firewall rules, potentially exposing services",
				Severity:    packs.SeverityHigh,
				Remediation: "save the current ruleset with iptables-save before flushing",
			},
			{
				Name:        "userdel",
				Pattern:     `\buserdel\s+(-r|--remove)\b`,
				Reason:      "deletes a user account and its home directory",
				Severity:    packs.SeverityMedium,
				Remediation: "archive the home directory before deleting the account",
			},
		},
	}
}

func remotePack() *packs.Pack {
	return &packs.Pack{
		ID:          "extended.remote",
		DisplayName: "Remote execution",
		Description: "Commands that pipe untrusted or remote content into an interpreter, or execute on a remote host.",
		Tier:        constants.TierExtended,
		Keywords:    []string{"curl", "wget", "ssh", "scp", "rsync"},
		Safe: []*packs.SafePatternSpec{
			{Name: "curl-to-file", Pattern: `\bcurl\s+.*-o\s+\S+`},
		},
		Destructive: []*packs.DestructivePatternSpec{
			{
				Name:        "curl-pipe-to-shell",
				Pattern:     `\b(curl|wget)\b[^|]*\|\s*(sudo\s+)?(sh|bash|zsh)\b`,
				Reason:      "executes remote content as a shell script with no review",
				Severity:    packs.SeverityCritical,
				Remediation: "download the script, read it, then run it explicitly",
			},
			{
				Name:        "rsync-delete",
				Pattern:     `\brsync\s+.*--delete\b.*\s/(\s|$)`,
				Reason:      "rsync --delete against a root-level target can remove destination files wholesale",
				Severity:    packs.SeverityHigh,
				Remediation: "dry-run with --dry-run before syncing with --delete",
			},
			{
				Name:        "ssh-remote-rm",
				Pattern:     `\bssh\s+\S+\s+.*rm\s+-[a-z]*r[a-z]*f`,
				Reason:      "runs a recursive forced delete on a remote host over ssh",
				Severity:    packs.SeverityHigh,
				Remediation: "run the remote command interactively first to confirm its target",
			},
		},
	}
}
