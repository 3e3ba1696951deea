// Package redact implements the redaction rule applied when
// listing ledger contents for humans: known credential-bearing
// substrings are replaced with "***" unless the caller explicitly
// requests raw output.
package redact

import (
	"regexp"
)

var userinfoPattern = regexp.MustCompile(`://[^@/\s]+@`)
var keyValuePattern = regexp.MustCompile(`(?i)(password|passwd|secret)=\S+`)
var apiKeyPattern = regexp.MustCompile(`\b(ghp|gho|ghu|ghs|xox[abpr]|AKIA|sk-ant|sk)-[A-Za-z0-9_-]{10,}\b`)
var base64BlobPattern = regexp.MustCompile(`\b[A-Za-z0-9+/]{32,}={0,2}\b`)

// Command returns cmd with every recognized credential-bearing
// substring replaced by "***". Safe to call repeatedly; idempotent on
// already-redacted text.
func Command(cmd string) string {
	out := userinfoPattern.ReplaceAllString(cmd, "://***@")
	out = keyValuePattern.ReplaceAllStringFunc(out, func(match string) string {
		idx := indexByte(match, '=')
		return match[:idx+1] + "***"
	})
	out = apiKeyPattern.ReplaceAllString(out, "***")
	out = base64BlobPattern.ReplaceAllString(out, "***")
	return out
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
