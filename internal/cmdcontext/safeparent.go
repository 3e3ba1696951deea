package cmdcontext

import "path"

// SafeParentRule describes, for one known documentation/search/printing
// command, which of its arguments are non-executable strings. The
// context analyzer uses this to demote
// destructive-looking substrings inside e.g. git commit -m "...",
// grep "rm -rf" file, echo "...".
type SafeParentRule struct {
	// StringOptions are flag names whose following word is a non-executable
	// string value (e.g. "-m", "--message" for git commit).
	StringOptions []string
	// FirstPositionalSafe marks the first non-flag positional argument as
	// a non-executable string (the pattern argument of grep-like tools).
	FirstPositionalSafe bool
	// AllArgsSafe marks every argument after the program name as a
	// non-executable string (echo, printf).
	AllArgsSafe bool
}

// safeParents is the fixed mapping from known command names to their
// safe-parent rule. Looked up by basename so "/usr/bin/grep" and "grep"
// behave identically.
var safeParents = map[string]SafeParentRule{
	"git":     {StringOptions: []string{"-m", "--message"}},
	"echo":    {AllArgsSafe: true},
	"printf":  {AllArgsSafe: true},
	"grep":    {FirstPositionalSafe: true},
	"egrep":   {FirstPositionalSafe: true},
	"fgrep":   {FirstPositionalSafe: true},
	"rg":      {FirstPositionalSafe: true},
	"ag":      {FirstPositionalSafe: true},
	"ack":     {FirstPositionalSafe: true},
	"awk":     {FirstPositionalSafe: true},
	"sed":     {FirstPositionalSafe: true},
	"find":    {StringOptions: []string{"-name", "-iname", "-path", "-ipath"}},
	"logger":  {AllArgsSafe: true},
	"gh":      {StringOptions: []string{"-b", "--body", "-m", "--message", "-t", "--title"}},
	"cat":     {},
}

// shellInterpreters is the set of program names whose -c/-e argument,
// or whose position as the right-hand side of a pipe, makes the
// argument or pipe target an executable shell script rather than inert
// data.
var shellInterpreters = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "dash": true, "ksh": true, "fish": true,
}

// scriptInterpreters maps an interpreter's basename to the inline-script
// flag that introduces a literal script body, and the language tag to
// assign it.
type scriptInterpreter struct {
	Flag     string
	Language Language
}

var scriptInterpreters = map[string][]scriptInterpreter{
	"sh":      {{"-c", LangShell}},
	"bash":    {{"-c", LangShell}},
	"zsh":     {{"-c", LangShell}},
	"dash":    {{"-c", LangShell}},
	"ksh":     {{"-c", LangShell}},
	"python":  {{"-c", LangPython}},
	"python3": {{"-c", LangPython}},
	"node":    {{"-e", LangJS}},
	"nodejs":  {{"-e", LangJS}},
	"perl":    {{"-e", LangPerl}},
	"ruby":    {{"-e", LangRuby}},
}

func baseName(program string) string {
	return path.Base(program)
}

func lookupSafeParent(program string) (SafeParentRule, bool) {
	rule, ok := safeParents[baseName(program)]
	return rule, ok
}

func lookupScriptInterpreter(program string) []scriptInterpreter {
	return scriptInterpreters[baseName(program)]
}

func isShellInterpreter(program string) bool {
	return shellInterpreters[baseName(program)]
}
