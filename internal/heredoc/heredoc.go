// Package heredoc implements the heredoc extractor and language
// detector: given the raw heredoc/inline-script spans that
// internal/cmdcontext locates but deliberately leaves unlabeled, it
// assigns a language so internal/deepscan knows which pattern set to
// run.
package heredoc

import (
	"strings"

	"github.com/dgerlanc/dcg/internal/cmdcontext"
)

// Body is one heredoc body or inline-script argument, with its
// language resolved by a fixed priority order.
type Body struct {
	Start, End int
	Text       string
	Language   cmdcontext.Language
	// Detected is false when every detection step fell through to
	// Unknown. internal/deepscan scans an Unknown body with the shell
	// patterns, and the hook engine treats a finding in such a body as
	// low confidence.
	Detected bool
}

// shebangLanguage maps an interpreter named on a shebang line (or an
// interpreter program name, e.g. "python3" from the top-level command)
// to its language tag.
var shebangLanguage = map[string]cmdcontext.Language{
	"sh":      cmdcontext.LangShell,
	"bash":    cmdcontext.LangShell,
	"zsh":     cmdcontext.LangShell,
	"dash":    cmdcontext.LangShell,
	"ksh":     cmdcontext.LangShell,
	"python":  cmdcontext.LangPython,
	"python2": cmdcontext.LangPython,
	"python3": cmdcontext.LangPython,
	"node":    cmdcontext.LangJS,
	"nodejs":  cmdcontext.LangJS,
	"deno":    cmdcontext.LangJS,
	"ruby":    cmdcontext.LangRuby,
	"perl":    cmdcontext.LangPerl,
}

// contentSignature is one content-heuristic token and the language it
// implies, checked in order so more distinctive tokens
// win over generic ones.
type contentSignature struct {
	token string
	lang  cmdcontext.Language
}

var contentSignatures = []contentSignature{
	{"use strict;", cmdcontext.LangPerl},
	{"use strict", cmdcontext.LangJS},
	{"require(", cmdcontext.LangJS},
	{"console.log", cmdcontext.LangJS},
	{"=> {", cmdcontext.LangJS},
	{"def ", cmdcontext.LangPython},
	{"import ", cmdcontext.LangPython},
	{"elif ", cmdcontext.LangPython},
	{"__name__", cmdcontext.LangPython},
	{"puts ", cmdcontext.LangRuby},
	{"require 'rubygems'", cmdcontext.LangRuby},
	{"end\n", cmdcontext.LangRuby},
	{"my $", cmdcontext.LangPerl},
	{"#!/", cmdcontext.LangShell},
	{"fi\n", cmdcontext.LangShell},
	{"esac\n", cmdcontext.LangShell},
}

// FromHeredocs extracts a Body for every heredoc span in a, resolving
// language per a fixed priority order: a standalone heredoc redirect has
// no interpreter flag of its own, but it is still fed to whatever
// program the command invokes ("python3 <<EOF" reads its script from
// stdin), so the top-level program name is checked first, then shebang,
// then content heuristics.
func FromHeredocs(a *cmdcontext.Analysis) []Body {
	bodies := make([]Body, 0, len(a.Heredocs))
	for _, h := range a.Heredocs {
		if h.Start < 0 || h.End > len(a.Command) || h.Start >= h.End {
			continue
		}
		text := a.Command[h.Start:h.End]
		lang, detected := detectLanguage(a.ProgramName, text)
		bodies = append(bodies, Body{
			Start:      h.Start,
			End:        h.End,
			Text:       text,
			Language:   lang,
			Detected:   detected,
		})
	}
	return bodies
}

// FromInlineScripts extracts a Body for every inline -c/-e script
// argument in a. The interpreter is already known (it's the program
// that took the flag), so detection short-circuits at priority (1).
func FromInlineScripts(a *cmdcontext.Analysis) []Body {
	bodies := make([]Body, 0, len(a.InlineScripts))
	for _, s := range a.InlineScripts {
		if s.Start < 0 || s.End > len(a.Command) || s.Start >= s.End {
			continue
		}
		bodies = append(bodies, Body{
			Start:      s.Start,
			End:        s.End,
			Text:       a.Command[s.Start:s.End],
			Language:   s.Language,
			Detected:   s.Language != cmdcontext.LangUnknown,
		})
	}
	return bodies
}

// detectLanguage runs the priority chain. program is the
// interpreter name when known (empty for a standalone heredoc, which
// has none); it is checked first so "python3 <<EOF" resolves without
// needing a shebang.
func detectLanguage(program, body string) (cmdcontext.Language, bool) {
	if program != "" {
		if lang, ok := shebangLanguage[baseProgram(program)]; ok {
			return lang, true
		}
	}
	if lang, ok := shebangOf(body); ok {
		return lang, true
	}
	if lang, ok := contentHeuristic(body); ok {
		return lang, true
	}
	return cmdcontext.LangUnknown, false
}

func baseProgram(program string) string {
	if i := strings.LastIndexByte(program, '/'); i >= 0 {
		return program[i+1:]
	}
	return program
}

// shebangOf inspects the first line of body for a "#!" interpreter
// line.
func shebangOf(body string) (cmdcontext.Language, bool) {
	trimmed := strings.TrimLeft(body, "\n")
	if !strings.HasPrefix(trimmed, "#!") {
		return cmdcontext.LangUnknown, false
	}
	line := trimmed
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		line = trimmed[:idx]
	}
	fields := strings.Fields(line[2:])
	if len(fields) == 0 {
		return cmdcontext.LangUnknown, false
	}
	interp := baseProgram(fields[0])
	// "#!/usr/bin/env python3" style: the real interpreter is the
	// second field.
	if interp == "env" && len(fields) > 1 {
		interp = baseProgram(fields[1])
	}
	lang, ok := shebangLanguage[interp]
	return lang, ok
}

// contentHeuristic scans body for the first distinctive token. Order
// in contentSignatures matters: more distinctive
// tokens are listed before generic ones that could false-positive
// across languages.
func contentHeuristic(body string) (cmdcontext.Language, bool) {
	for _, sig := range contentSignatures {
		if strings.Contains(body, sig.token) {
			return sig.lang, true
		}
	}
	return cmdcontext.LangUnknown, false
}
