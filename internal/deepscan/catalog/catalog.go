// Package catalog holds the concrete per-language pattern packs the
// inline-script deep scanner runs against heredoc bodies and -c/-e
// script arguments.
package catalog

import (
	"github.com/dgerlanc/dcg/internal/cmdcontext"
	"github.com/dgerlanc/dcg/internal/deepscan"
	"github.com/dgerlanc/dcg/internal/packs"
)

func shellPack() *deepscan.Pack {
	return &deepscan.Pack{
		Language:   cmdcontext.LangShell,
		PackPrefix: "shell",
		Patterns: []*deepscan.Pattern{
			{
				Name:        "rm_rf_root",
				Kind:        deepscan.KindRegex,
				Regex:       `\brm\s+(-[a-z]*r[a-z]*f|-[a-z]*f[a-z]*r)\s+/\s*($|[^\w.])`,
				Severity:    packs.SeverityCritical,
				Reason:      "heredoc body recursively force-deletes from the filesystem root",
				Remediation: "scope the deletion to a specific subdirectory",
			},
			{
				Name:        "curl_pipe_to_shell",
				Kind:        deepscan.KindRegex,
				Regex:       `\b(curl|wget)\b[^|]*\|\s*(sudo\s+)?(sh|bash|zsh)\b`,
				Severity:    packs.SeverityCritical,
				Reason:      "heredoc body pipes downloaded content straight into a shell",
				Remediation: "download and review the script before executing it",
			},
		},
	}
}

func pythonPack() *deepscan.Pack {
	return &deepscan.Pack{
		Language:   cmdcontext.LangPython,
		PackPrefix: "python",
		Patterns: []*deepscan.Pattern{
			{
				Name:        "os_system_rm",
				Kind:        deepscan.KindComposite,
				Regex:       `os\.system`,
				Template:    `os.system($ARG)`,
				Severity:    packs.SeverityCritical,
				Reason:      "inline script shells out via os.system with an embedded command",
				Remediation: "use subprocess with an explicit argument list instead of a shell string",
			},
			{
				Name:        "shutil_rmtree",
				Kind:        deepscan.KindASTShaped,
				Template:    `shutil.rmtree($ARG)`,
				Severity:    packs.SeverityHigh,
				Reason:      "inline script recursively deletes a directory tree",
				Remediation: "confirm the target path before calling rmtree",
			},
			{
				Name:        "subprocess_shell_true",
				Kind:        deepscan.KindRegex,
				Regex:       `subprocess\.\w+\([^)]*shell\s*=\s*True`,
				Severity:    packs.SeverityHigh,
				Reason:      "inline script invokes subprocess with shell=True, enabling shell injection",
				Remediation: "pass an argument list and avoid shell=True",
			},
		},
	}
}

func rubyPack() *deepscan.Pack {
	return &deepscan.Pack{
		Language:   cmdcontext.LangRuby,
		PackPrefix: "ruby",
		Patterns: []*deepscan.Pattern{
			{
				Name:        "fileutils_rm_rf",
				Kind:        deepscan.KindASTShaped,
				Template:    `FileUtils.rm_rf($ARG)`,
				Severity:    packs.SeverityHigh,
				Reason:      "inline script recursively removes a path via FileUtils.rm_rf",
				Remediation: "confirm the target path before calling rm_rf",
			},
			{
				Name:        "backtick_exec",
				Kind:        deepscan.KindRegex,
				Regex:       "`[^`]*rm\\s+-rf[^`]*`",
				Severity:    packs.SeverityHigh,
				Reason:      "inline script shells out to a recursive delete via backticks",
				Remediation: "use FileUtils with an explicit path instead of shelling out",
			},
		},
	}
}

func jsPack() *deepscan.Pack {
	return &deepscan.Pack{
		Language:   cmdcontext.LangJS,
		PackPrefix: "js",
		Patterns: []*deepscan.Pattern{
			{
				Name:        "fs_rm_recursive",
				Kind:        deepscan.KindRegex,
				Regex:       `fs\.(rmSync|rmdirSync)\([^)]*recursive\s*:\s*true`,
				Severity:    packs.SeverityHigh,
				Reason:      "inline script recursively removes a directory tree",
				Remediation: "confirm the target path and consider a confirmation prompt",
			},
			{
				Name:        "child_process_exec",
				Kind:        deepscan.KindComposite,
				Regex:       `child_process`,
				Template:    `exec($ARG)`,
				Severity:    packs.SeverityMedium,
				Reason:      "inline script shells out via child_process.exec with a string command",
				Remediation: "use execFile/spawn with an argument list instead of a shell string",
			},
		},
	}
}

func perlPack() *deepscan.Pack {
	return &deepscan.Pack{
		Language:   cmdcontext.LangPerl,
		PackPrefix: "perl",
		Patterns: []*deepscan.Pattern{
			{
				Name:        "system_rm",
				Kind:        deepscan.KindComposite,
				Regex:       `\bsystem\s*\(`,
				Template:    `system($ARG)`,
				Severity:    packs.SeverityHigh,
				Reason:      "inline script shells out via system with an embedded command",
				Remediation: "pass a list of arguments to system instead of a single shell string",
			},
			{
				Name:        "unlink_glob",
				Kind:        deepscan.KindRegex,
				Regex:       `\bunlink\s*\(?\s*glob\b`,
				Severity:    packs.SeverityMedium,
				Reason:      "inline script deletes every file matched by a glob expression",
				Remediation: "print the glob's matches before unlinking them",
			},
		},
	}
}

// All returns the shipped per-language deep-scan registry.
func All() *deepscan.Registry {
	return deepscan.NewRegistry([]*deepscan.Pack{
		shellPack(),
		pythonPack(),
		rubyPack(),
		jsPack(),
		perlPack(),
	})
}
