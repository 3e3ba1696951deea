package redact

import (
	"strings"
	"testing"
)

func TestCommand_URLUserinfo(t *testing.T) {
	in := `curl https://TOKEN@example.com/upload`
	out := Command(in)
	if strings.Contains(out, "TOKEN@") {
		t.Errorf("expected userinfo to be redacted, got %q", out)
	}
	if !strings.Contains(out, "://***@") {
		t.Errorf("expected ://***@ marker, got %q", out)
	}
}

func TestCommand_PasswordAssignment(t *testing.T) {
	in := `mysql --password=hunter2hunter2 -u root`
	out := Command(in)
	if strings.Contains(out, "hunter2hunter2") {
		t.Errorf("expected password value to be redacted, got %q", out)
	}
	if !strings.Contains(out, "password=***") {
		t.Errorf("expected password=*** marker, got %q", out)
	}
}

func TestCommand_SecretAssignment(t *testing.T) {
	in := `export SECRET=abc && curl --secret=verysecretvalue123 https://example.com`
	out := Command(in)
	if strings.Contains(out, "verysecretvalue123") {
		t.Errorf("expected secret value to be redacted, got %q", out)
	}
}

func TestCommand_APIKeyPrefix(t *testing.T) {
	in := `export GITHUB_TOKEN=ghp-aaaaaaaaaaaaaaaaaaaa`
	out := Command(in)
	if strings.Contains(out, "aaaaaaaaaaaaaaaaaaaa") {
		t.Errorf("expected api key to be redacted, got %q", out)
	}
}

func TestCommand_AnthropicKeyPrefix(t *testing.T) {
	in := `curl -H "Authorization: Bearer sk-ant-REDACTED"`
	out := Command(in)
	if strings.Contains(out, "REDACTED") {
		t.Errorf("expected anthropic key to be redacted, got %q", out)
	}
}

func TestCommand_Base64Blob(t *testing.T) {
	in := `echo QUJDREVGR0hJSktMTU5PUFFSU1RVVldYWVphYmNkZWZnaGlqa2w= | base64 -d`
	out := Command(in)
	if strings.Contains(out, "QUJDREVGR0hJSktMTU5PUFFSU1RVVldYWVphYmNkZWZnaGlqa2w") {
		t.Errorf("expected base64 blob to be fully redacted, got %q", out)
	}
	if !strings.Contains(out, "***") {
		t.Errorf("expected *** marker, got %q", out)
	}
}

func TestCommand_NoCredentialsIsUnchanged(t *testing.T) {
	in := `rm -rf /tmp/build`
	out := Command(in)
	if out != in {
		t.Errorf("expected unchanged command, got %q", out)
	}
}

func TestCommand_Idempotent(t *testing.T) {
	in := `mysql --password=hunter2hunter2`
	once := Command(in)
	twice := Command(once)
	if once != twice {
		t.Errorf("expected redaction to be idempotent: %q vs %q", once, twice)
	}
}
