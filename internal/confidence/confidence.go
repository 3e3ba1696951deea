// Package confidence implements a confidence-scoring supplement to the
// destructive pass: a match in Executable/Heredoc context with
// operators nearby keeps full confidence; a match demoted to
// QuotedString by the context analyzer, or sitting in a sanitized
// region, scores low enough to downgrade a candidate denial to Allow
// (reason LowConfidence) instead of Deny.
package confidence

import (
	"strings"

	"github.com/dgerlanc/dcg/internal/cmdcontext"
)

// Signal is one factor that contributed to a Score.
type Signal int

const (
	SignalExecuted Signal = iota
	SignalHeredoc
	SignalPipeTarget
	SignalQuotedString
	SignalUnknownSpan
	SignalSanitizedRegion
	SignalExecutionOperatorsNearby
	SignalCommandPosition
	SignalArgumentPosition
)

// weight returns the multiplicative adjustment this signal applies to
// the running score. Values above 1.0 boost confidence; values below
// 1.0 reduce it.
func (s Signal) weight() float64 {
	switch s {
	case SignalExecuted, SignalHeredoc, SignalPipeTarget:
		return 1.0
	case SignalCommandPosition, SignalExecutionOperatorsNearby:
		return 1.1
	case SignalQuotedString:
		return 0.1
	case SignalSanitizedRegion:
		return 0.2
	case SignalArgumentPosition:
		return 0.6
	case SignalUnknownSpan:
		return 0.8
	default:
		return 1.0
	}
}

func (s Signal) String() string {
	switch s {
	case SignalExecuted:
		return "match is in executed code"
	case SignalHeredoc:
		return "match is in a heredoc body"
	case SignalPipeTarget:
		return "match is in a pipe target fed to a shell"
	case SignalQuotedString:
		return "match is in a string argument to a safe command"
	case SignalUnknownSpan:
		return "match context is ambiguous"
	case SignalSanitizedRegion:
		return "match was in a region masked by sanitization"
	case SignalExecutionOperatorsNearby:
		return "execution operators (|, ;, &&) found nearby"
	case SignalCommandPosition:
		return "match is at command position"
	case SignalArgumentPosition:
		return "match is in argument position"
	default:
		return "unknown signal"
	}
}

// DefaultWarnThreshold is the score below which a candidate denial is
// downgraded to Allow with reason LowConfidence.
const DefaultWarnThreshold = 0.5

// Score is the result of scoring one pattern match.
type Score struct {
	Value   float64
	Signals []Signal
}

// High returns the default score assumed for every match before any
// signal is applied.
func High() Score {
	return Score{Value: 1.0}
}

func (s *Score) add(signal Signal) {
	s.Signals = append(s.Signals, signal)
	v := s.Value * signal.weight()
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.Value = v
}

// IsLow reports whether the score is below threshold.
func (s Score) IsLow(threshold float64) bool {
	return s.Value < threshold
}

// ShouldWarn reports whether the score is low enough to downgrade a
// Deny to Allow.
func (s Score) ShouldWarn() bool {
	return s.IsLow(DefaultWarnThreshold)
}

// Context carries what Compute needs to score one match.
type Context struct {
	Command          string
	SanitizedCommand string // empty means "no sanitization happened"
	Analysis         *cmdcontext.Analysis
	MatchStart       int
	MatchEnd         int
}

// Compute scores a single pattern match found at [MatchStart,MatchEnd)
// within Command.
func Compute(ctx Context) Score {
	score := High()

	if ctx.SanitizedCommand != "" && ctx.SanitizedCommand != ctx.Command {
		if ctx.MatchStart < len(ctx.SanitizedCommand) && ctx.MatchEnd <= len(ctx.SanitizedCommand) {
			orig := safeSlice(ctx.Command, ctx.MatchStart, ctx.MatchEnd)
			san := safeSlice(ctx.SanitizedCommand, ctx.MatchStart, ctx.MatchEnd)
			if orig != san {
				score.add(SignalSanitizedRegion)
			}
		}
	}

	if ctx.Analysis != nil {
		score.add(classifyMatchSpan(ctx.Analysis, ctx.MatchStart, ctx.MatchEnd))
	}

	if hasExecutionOperatorsNearby(ctx.Command, ctx.MatchStart, ctx.MatchEnd) {
		score.add(SignalExecutionOperatorsNearby)
	}

	if isCommandPosition(ctx.Command, ctx.MatchStart) {
		score.add(SignalCommandPosition)
	} else {
		score.add(SignalArgumentPosition)
	}

	return score
}

// ShouldDowngradeToWarn is a convenience wrapper combining Compute
// with the downgrade decision.
func ShouldDowngradeToWarn(ctx Context) (Score, bool) {
	score := Compute(ctx)
	return score, score.ShouldWarn()
}

func classifyMatchSpan(a *cmdcontext.Analysis, start, end int) Signal {
	span, ok := a.SpanContaining(start, end)
	if !ok {
		return SignalUnknownSpan
	}
	switch span.Label {
	case cmdcontext.LabelExecutable:
		return SignalExecuted
	case cmdcontext.LabelHeredoc:
		return SignalHeredoc
	case cmdcontext.LabelPipeTarget:
		return SignalPipeTarget
	case cmdcontext.LabelQuotedString:
		return SignalQuotedString
	default:
		return SignalUnknownSpan
	}
}

var nearbyOperators = []string{"|", ";", "&&", "||", "$(", "`"}

func hasExecutionOperatorsNearby(command string, start, end int) bool {
	prefixStart := start - 20
	if prefixStart < 0 {
		prefixStart = 0
	}
	prefix := safeSlice(command, prefixStart, start)

	suffixEnd := end + 20
	if suffixEnd > len(command) {
		suffixEnd = len(command)
	}
	suffix := safeSlice(command, end, suffixEnd)

	for _, op := range nearbyOperators {
		if strings.Contains(prefix, op) || strings.Contains(suffix, op) {
			return true
		}
	}
	return false
}

func isCommandPosition(command string, start int) bool {
	if start <= 0 {
		return true
	}
	prefix := strings.TrimRight(safeSlice(command, 0, start), " \t\n")
	if prefix == "" {
		return true
	}
	if strings.HasSuffix(prefix, "&&") || strings.HasSuffix(prefix, "||") || strings.HasSuffix(prefix, "$(") {
		return true
	}
	last := prefix[len(prefix)-1]
	switch last {
	case '|', ';', '(', '`':
		return true
	default:
		return false
	}
}

func safeSlice(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return ""
	}
	return s[start:end]
}
