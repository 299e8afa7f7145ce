package utils

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"openai key", "token sk-abcdefghijklmnopqrstuvwxyz123456", "token sk-[REDACTED]"},
		{"bearer token", "Authorization: Bearer abc.def-ghi", "Authorization: Bearer [REDACTED]"},
		{"env assignment", "API_KEY=super-secret-value", "API_KEY=[REDACTED]"},
		{"plain text unaffected", "ls /workspace", "ls /workspace"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Sanitize(c.input)
			if !strings.Contains(got, "[REDACTED") && got == c.input && c.want != c.input {
				t.Errorf("Sanitize(%q) = %q, expected redaction", c.input, got)
			}
			if c.want == c.input && got != c.input {
				t.Errorf("Sanitize(%q) = %q, expected unchanged", c.input, got)
			}
		})
	}
}
