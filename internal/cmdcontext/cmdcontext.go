// Package cmdcontext implements the context analyzer: it labels every
// region of a command as executable or not, so that destructive
// patterns apply only to text that actually runs.
//
// It parses with mvdan.cc/sh/v3's shell parser to split command chains
// and find quoted/heredoc ranges, generalized from a single
// dangerous-substring check into full per-region labeling.
package cmdcontext

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Label is the context classification of one byte span of the command
//.
type Label int

const (
	LabelExecutable Label = iota
	LabelQuotedString
	LabelHeredoc
	LabelPipeTarget
	LabelUnknown
)

func (l Label) String() string {
	switch l {
	case LabelExecutable:
		return "Executable"
	case LabelQuotedString:
		return "QuotedString"
	case LabelHeredoc:
		return "Heredoc"
	case LabelPipeTarget:
		return "PipeTarget"
	default:
		return "Unknown"
	}
}

// Language is the detected language of a heredoc body or inline script
//.
type Language int

const (
	LangUnknown Language = iota
	LangShell
	LangPython
	LangJS
	LangRuby
	LangPerl
)

func (l Language) String() string {
	switch l {
	case LangShell:
		return "shell"
	case LangPython:
		return "python"
	case LangJS:
		return "js"
	case LangRuby:
		return "ruby"
	case LangPerl:
		return "perl"
	default:
		return "unknown"
	}
}

// Span is one labeled byte range of the command text.
type Span struct {
	Start, End int
	Label      Label
}

// HeredocSpan is a heredoc body discovered by the analyzer.
type HeredocSpan struct {
	Start, End      int
	DelimiterQuoted bool // quoted delimiter -> no shell expansion inside the body
	HereString      bool // "<<<", single-line, never language-detected
	Language        Language
}

// InlineScript is a -c/-e argument to a known interpreter.
type InlineScript struct {
	Start, End  int
	Interpreter string
	Language    Language
}

// Analysis is the full result of analyzing one command line. A chained
// command (`a && b; c | d`) is analyzed whole: Analyze walks every
// statement of the parsed program itself.
type Analysis struct {
	Command       string
	ProgramName   string
	Spans         []Span
	Heredocs      []HeredocSpan
	InlineScripts []InlineScript
	// Suspicious is true when the parser could not fully parse the
	// command (unterminated quote, malformed heredoc). No prefix is
	// analyzed in that case: the whole command becomes a single Unknown
	// span and ProgramName is its first whitespace-separated word. The
	// hook engine copies the flag into its EvalResult.
	Suspicious bool
}

// LabelAt returns the label covering byte offset pos, defaulting to
// LabelUnknown if pos falls outside every recorded span.
func (a *Analysis) LabelAt(pos int) Label {
	for _, s := range a.Spans {
		if pos >= s.Start && pos < s.End {
			return s.Label
		}
	}
	return LabelUnknown
}

// SetHeredocLanguage records the language resolved for the heredoc span
// [start,end) by internal/heredoc, which owns language detection.
// cmdcontext only locates spans; it has no opinion on language until
// told.
func (a *Analysis) SetHeredocLanguage(start, end int, lang Language) {
	for i := range a.Heredocs {
		if a.Heredocs[i].Start == start && a.Heredocs[i].End == end {
			a.Heredocs[i].Language = lang
			return
		}
	}
}

// HeredocLanguageAt returns the resolved language of the heredoc span
// covering byte offset pos, if pos falls within one.
func (a *Analysis) HeredocLanguageAt(pos int) (Language, bool) {
	for _, h := range a.Heredocs {
		if pos >= h.Start && pos < h.End {
			return h.Language, true
		}
	}
	return LangUnknown, false
}

// SpanContaining returns the most specific recorded span containing
// [start,end), if any.
func (a *Analysis) SpanContaining(start, end int) (Span, bool) {
	var best Span
	found := false
	for _, s := range a.Spans {
		if s.Start <= start && end <= s.End {
			if !found || (s.End-s.Start) < (best.End-best.Start) {
				best = s
				found = true
			}
		}
	}
	return best, found
}

// Analyze labels every region of cmd.
func Analyze(cmd string) *Analysis {
	a := &Analysis{Command: cmd}

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	prog, err := parser.Parse(strings.NewReader(cmd), "")
	if err != nil {
		// Unparseable: label the whole command Unknown rather than
		// analyzing any prefix of it.
		a.Suspicious = true
		a.ProgramName = firstWordFallback(cmd)
		a.Spans = []Span{{Start: 0, End: len(cmd), Label: LabelUnknown}}
		return a
	}

	walker := &analyzer{analysis: a, cmd: cmd}
	for _, stmt := range prog.Stmts {
		walker.walkStmt(stmt, false)
	}
	if a.ProgramName == "" {
		a.ProgramName = walker.firstProgram
	}

	// Default-label every otherwise-uncovered byte as Executable: at the
	// top level, anything not inside a quoted literal, heredoc, or pipe
	// target is code that runs.
	a.Spans = fillGaps(a.Spans, len(cmd), LabelExecutable)
	return a
}

type analyzer struct {
	analysis     *Analysis
	cmd          string
	firstProgram string
}

func (w *analyzer) walkStmt(stmt *syntax.Stmt, feedsShell bool) {
	if stmt == nil || stmt.Cmd == nil {
		return
	}
	switch cmd := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		w.walkCall(cmd, feedsShell)
	case *syntax.BinaryCmd:
		w.walkBinary(cmd)
	case *syntax.Subshell:
		for _, s := range cmd.Stmts {
			w.walkStmt(s, feedsShell)
		}
	case *syntax.Block:
		for _, s := range cmd.Stmts {
			w.walkStmt(s, feedsShell)
		}
	case *syntax.IfClause:
		for clause := cmd; clause != nil; clause = clause.Else {
			for _, s := range clause.Cond {
				w.walkStmt(s, false)
			}
			for _, s := range clause.Then {
				w.walkStmt(s, feedsShell)
			}
		}
	case *syntax.WhileClause:
		for _, s := range cmd.Cond {
			w.walkStmt(s, false)
		}
		for _, s := range cmd.Do {
			w.walkStmt(s, feedsShell)
		}
	case *syntax.ForClause:
		for _, s := range cmd.Do {
			w.walkStmt(s, feedsShell)
		}
	case *syntax.CaseClause:
		for _, item := range cmd.Items {
			for _, s := range item.Stmts {
				w.walkStmt(s, feedsShell)
			}
		}
	case *syntax.FuncDecl:
		if cmd.Body != nil {
			w.walkStmt(cmd.Body, feedsShell)
		}
	}

	// Redirections (heredocs) attach to the statement regardless of its
	// command kind.
	for _, r := range stmt.Redirs {
		w.walkRedirect(r)
	}
}

func (w *analyzer) walkBinary(cmd *syntax.BinaryCmd) {
	feedsShell := false
	if cmd.Op == syntax.Pipe || cmd.Op == syntax.PipeAll {
		rhsProgram := firstCallProgram(cmd.Y)
		feedsShell = rhsProgram != "" && isShellInterpreter(rhsProgram)
	}
	w.walkStmt(cmd.X, feedsShell)
	if feedsShell {
		start := int(cmd.Y.Pos().Offset())
		end := int(cmd.Y.End().Offset())
		w.analysis.Spans = append(w.analysis.Spans, Span{Start: start, End: end, Label: LabelPipeTarget})
		return
	}
	w.walkStmt(cmd.Y, false)
}

func (w *analyzer) walkCall(call *syntax.CallExpr, feedsShell bool) {
	if len(call.Args) == 0 {
		return
	}
	program := wordLiteral(call.Args[0])
	if w.firstProgram == "" {
		w.firstProgram = program
	}
	if w.analysis.ProgramName == "" {
		w.analysis.ProgramName = program
	}

	// Program name itself always runs.
	w.labelWord(call.Args[0], LabelExecutable)

	// A command whose stdout feeds a shell interpreter ("echo ... | bash")
	// has its own arguments become the executed script; the safe-parent
	// registry's "this argument is just inert data" rules no longer apply.
	rule, hasSafeParent := lookupSafeParent(program)
	if feedsShell {
		hasSafeParent = false
	}
	scripts := lookupScriptInterpreter(program)

	positionalSeen := 0
argLoop:
	for i := 1; i < len(call.Args); i++ {
		arg := call.Args[i]
		lit := wordLiteral(arg)

		// -c/-e inline script detection: the NEXT
		// word after the flag is the script body and is always
		// Executable, regardless of any safe-parent rule.
		if len(scripts) > 0 && i+1 < len(call.Args) {
			for _, si := range scripts {
				if lit != si.Flag {
					continue
				}
				bodyWord := call.Args[i+1]
				w.labelWord(bodyWord, LabelExecutable)
				w.analysis.InlineScripts = append(w.analysis.InlineScripts, InlineScript{
					Start:       int(bodyWord.Pos().Offset()),
					End:         int(bodyWord.End().Offset()),
					Interpreter: program,
					Language:    si.Language,
				})
				i++
				continue argLoop
			}
		}

		if hasSafeParent {
			if rule.AllArgsSafe {
				w.labelWord(arg, LabelQuotedString)
				continue argLoop
			}
			if isStringOption(rule.StringOptions, lit) && i+1 < len(call.Args) {
				w.labelWord(call.Args[i+1], LabelQuotedString)
				i++
				continue argLoop
			}
			if rule.FirstPositionalSafe && !strings.HasPrefix(lit, "-") {
				positionalSeen++
				if positionalSeen == 1 {
					w.labelWord(arg, LabelQuotedString)
					continue argLoop
				}
			}
		}

		// Default: an argument can mix quoted and unquoted text in one
		// word (--description="value"), so label each part by its own
		// span rather than the whole word at once. A quoted part (no
		// command substitution inside) is inert data; a bare literal or
		// an expansion is executable. A quoted part stops being inert
		// once this command's stdout feeds a shell interpreter: whatever
		// the argument's text is becomes the script that runs.
		if feedsShell {
			w.labelWord(arg, LabelExecutable)
		} else {
			w.labelWordParts(arg)
		}
	}

	// Command substitutions ($(...) or `...`) anywhere in any argument —
	// including inside double-quoted strings — open a new executable
	// region. Walk every word's parts looking for them.
	for _, arg := range call.Args {
		w.walkSubstitutions(arg)
	}
}

// walkSubstitutions finds $(...) / backtick / double-quoted nested
// substitutions within a word and recursively labels their contents as
// Executable, overriding whatever the enclosing word was labeled.
func (w *analyzer) walkSubstitutions(word *syntax.Word) {
	if word == nil {
		return
	}
	for _, part := range word.Parts {
		w.walkWordPart(part)
	}
}

func (w *analyzer) walkWordPart(part syntax.WordPart) {
	switch p := part.(type) {
	case *syntax.CmdSubst:
		start := int(p.Pos().Offset())
		end := int(p.End().Offset())
		w.analysis.Spans = append(w.analysis.Spans, Span{Start: start, End: end, Label: LabelExecutable})
		for _, s := range p.Stmts {
			w.walkStmt(s, false)
		}
	case *syntax.DblQuoted:
		for _, inner := range p.Parts {
			w.walkWordPart(inner)
		}
	}
}

func (w *analyzer) walkRedirect(r *syntax.Redirect) {
	if r.Op == syntax.WordHdoc {
		// Here-string (<<<): single-line body, no language detection
		//.
		if r.Word == nil {
			return
		}
		start := int(r.Word.Pos().Offset())
		end := int(r.Word.End().Offset())
		if start < 0 || end > len(w.cmd) || start >= end {
			return
		}
		w.analysis.Heredocs = append(w.analysis.Heredocs, HeredocSpan{
			Start: start, End: end, HereString: true, Language: LangUnknown,
		})
		w.analysis.Spans = append(w.analysis.Spans, Span{Start: start, End: end, Label: LabelHeredoc})
		return
	}
	if r.Op != syntax.Hdoc && r.Op != syntax.DashHdoc {
		return
	}
	if r.Hdoc == nil {
		return
	}
	start := int(r.Hdoc.Pos().Offset())
	end := int(r.Hdoc.End().Offset())
	if start < 0 || end > len(w.cmd) || start >= end {
		return
	}
	quoted := wordIsQuoted(r.Word)
	// Language detection is owned by
	// the heredoc package, which consumes this raw span; cmdcontext only
	// locates and quote-classifies it.
	w.analysis.Heredocs = append(w.analysis.Heredocs, HeredocSpan{
		Start: start, End: end, DelimiterQuoted: quoted, Language: LangUnknown,
	})
	w.analysis.Spans = append(w.analysis.Spans, Span{Start: start, End: end, Label: LabelHeredoc})
}

func (w *analyzer) labelWord(word *syntax.Word, label Label) {
	if word == nil {
		return
	}
	start := int(word.Pos().Offset())
	end := int(word.End().Offset())
	if start >= end {
		return
	}
	w.analysis.Spans = append(w.analysis.Spans, Span{Start: start, End: end, Label: label})
}

func isStringOption(options []string, lit string) bool {
	for _, o := range options {
		if o == lit {
			return true
		}
	}
	return false
}

// labelWordParts labels each part of word individually: a single- or
// double-quoted part with no command substitution or parameter
// expansion inside is QuotedString (inert data); a bare literal or an
// expansion is Executable. This lets a word like --description="value"
// carry two labels — Executable for the unquoted "--description=" and
// QuotedString for the quoted value — instead of forcing one label on
// the whole word.
func (w *analyzer) labelWordParts(word *syntax.Word) {
	if word == nil {
		return
	}
	for _, part := range word.Parts {
		start := int(part.Pos().Offset())
		end := int(part.End().Offset())
		if start >= end {
			continue
		}
		label := LabelExecutable
		switch p := part.(type) {
		case *syntax.SglQuoted:
			label = LabelQuotedString
		case *syntax.DblQuoted:
			if dblQuotedIsPureLiteral(p) {
				label = LabelQuotedString
			}
		}
		w.analysis.Spans = append(w.analysis.Spans, Span{Start: start, End: end, Label: label})
	}
}

// dblQuotedIsPureLiteral reports whether a double-quoted part contains
// only literal text, with no command substitution or parameter
// expansion inside.
func dblQuotedIsPureLiteral(dq *syntax.DblQuoted) bool {
	for _, inner := range dq.Parts {
		if _, ok := inner.(*syntax.Lit); !ok {
			return false
		}
	}
	return true
}

func wordIsQuoted(word *syntax.Word) bool {
	if word == nil {
		return false
	}
	for _, part := range word.Parts {
		switch part.(type) {
		case *syntax.SglQuoted, *syntax.DblQuoted:
			return true
		}
	}
	return false
}

func wordLiteral(word *syntax.Word) string {
	if word == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				if lit, ok := inner.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				}
			}
		}
	}
	return sb.String()
}

func firstCallProgram(stmt *syntax.Stmt) string {
	if stmt == nil {
		return ""
	}
	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok || len(call.Args) == 0 {
		return ""
	}
	return wordLiteral(call.Args[0])
}

func firstWordFallback(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// fillGaps sorts spans and fills any byte range they don't cover with a
// span of the given default label, producing a total, non-overlapping
// partition of [0,length). Later spans (added later during the walk,
// representing more specific context) take priority over earlier,
// broader ones when they overlap.
func fillGaps(spans []Span, length int, fill Label) []Span {
	if length == 0 {
		return spans
	}
	covered := make([]Label, length)
	hasLabel := make([]bool, length)
	for _, s := range spans {
		start, end := s.Start, s.End
		if start < 0 {
			start = 0
		}
		if end > length {
			end = length
		}
		for i := start; i < end; i++ {
			covered[i] = s.Label
			hasLabel[i] = true
		}
	}
	var out []Span
	i := 0
	for i < length {
		if !hasLabel[i] {
			j := i
			for j < length && !hasLabel[j] {
				j++
			}
			out = append(out, Span{Start: i, End: j, Label: fill})
			i = j
			continue
		}
		j := i
		lbl := covered[i]
		for j < length && hasLabel[j] && covered[j] == lbl {
			j++
		}
		out = append(out, Span{Start: i, End: j, Label: lbl})
		i = j
	}
	return out
}
