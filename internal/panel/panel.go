// Package panel renders the human-readable denial panel dcg writes to
// stderr on every Deny, styled with lipgloss, with a plain-text
// fallback for CI and color-disabled environments.
package panel

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgerlanc/dcg/internal/constants"
	"github.com/dgerlanc/dcg/internal/packs"
)

// Denial carries the fields a denial panel needs to render; it mirrors
// the hook verdict's Deny fields without importing the hook
// package, keeping panel a leaf dependency.
type Denial struct {
	RuleID      string
	PackID      string
	PatternName string
	Severity    packs.Severity
	Reason      string
	Remediation string
	Command     string
	AllowOnceCode string
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f87171"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#94a3b8"))
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24"))
	codeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#34d399"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#f87171")).
			Padding(0, 1)
)

func severityColor(s packs.Severity) lipgloss.Color {
	switch s {
	case packs.SeverityCritical:
		return lipgloss.Color("#dc2626")
	case packs.SeverityHigh:
		return lipgloss.Color("#f87171")
	case packs.SeverityMedium:
		return lipgloss.Color("#fbbf24")
	default:
		return lipgloss.Color("#94a3b8")
	}
}

// UsePlain reports whether rendering should fall back to plain text,
// via the env vars DCG_NO_RICH, NO_COLOR, or CI.
func UsePlain() bool {
	return os.Getenv(constants.EnvNoRich) != "" ||
		os.Getenv(constants.EnvNoColor) != "" ||
		os.Getenv(constants.EnvCI) != ""
}

// Render returns the stderr text for a denial, rich or plain depending
// on UsePlain.
func Render(d Denial) string {
	if UsePlain() {
		return renderPlain(d)
	}
	return renderRich(d)
}

func renderPlain(d Denial) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DENIED [%s]: %s\n", strings.ToUpper(d.Severity.String()), d.RuleID)
	fmt.Fprintf(&b, "command: %s\n", d.Command)
	fmt.Fprintf(&b, "reason:  %s\n", d.Reason)
	if d.Remediation != "" {
		fmt.Fprintf(&b, "suggestion: %s\n", d.Remediation)
	}
	if d.AllowOnceCode != "" {
		fmt.Fprintf(&b, "to allow once: dcg allow-once %s\n", d.AllowOnceCode)
	}
	return b.String()
}

func renderRich(d Denial) string {
	sevStyle := lipgloss.NewStyle().Bold(true).Foreground(severityColor(d.Severity))

	var body strings.Builder
	body.WriteString(titleStyle.Render("Command denied") + " " + sevStyle.Render("["+strings.ToUpper(d.Severity.String())+"]") + "\n\n")
	body.WriteString(labelStyle.Render("rule") + "   " + ruleStyle.Render(d.RuleID) + "\n")
	body.WriteString(labelStyle.Render("command") + "  " + d.Command + "\n")
	body.WriteString(labelStyle.Render("reason") + "   " + d.Reason + "\n")
	if d.Remediation != "" {
		body.WriteString(labelStyle.Render("suggest") + "  " + d.Remediation + "\n")
	}
	if d.AllowOnceCode != "" {
		body.WriteString("\n" + codeStyle.Render(fmt.Sprintf("ALLOW-24H CODE: [%s] | run: dcg allow-once %s", d.AllowOnceCode, d.AllowOnceCode)) + "\n")
	}

	return boxStyle.Render(strings.TrimRight(body.String(), "\n")) + "\n"
}
