package validator

import (
	"testing"

	"go.uber.org/zap"
)

func TestValidateAccepts(t *testing.T) {
	v := New(zap.NewNop())
	cases := []struct {
		cmd  string
		want []string
	}{
		{"ls /workspace", []string{"ls", "/workspace"}},
		{"grep foo /workspace/file.txt", []string{"grep", "foo", "/workspace/file.txt"}},
		{`echo "hello world"`, []string{"echo", "hello world"}},
		{"sh -c pwd", []string{"sh", "-c", "pwd"}},
	}
	for _, c := range cases {
		got, err := v.Validate(c.cmd)
		if err != nil {
			t.Fatalf("Validate(%q) unexpected error: %v", c.cmd, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("Validate(%q) = %v, want %v", c.cmd, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("Validate(%q)[%d] = %q, want %q", c.cmd, i, got[i], c.want[i])
			}
		}
	}
}

func TestValidateRejectsForbiddenPattern(t *testing.T) {
	v := New(zap.NewNop())
	cases := []string{
		"ls | grep foo",
		"cat /etc/passwd > /tmp/x",
		"echo `whoami`",
		"echo $(whoami)",
		"echo ${HOME}",
		"ls ; rm -rf /",
	}
	for _, cmd := range cases {
		_, err := v.Validate(cmd)
		if err == nil {
			t.Fatalf("Validate(%q) expected error, got none", cmd)
		}
		verr, ok := err.(*Error)
		if !ok || verr.Kind != KindForbiddenPattern {
			t.Errorf("Validate(%q) error kind = %v, want ForbiddenPattern", cmd, err)
		}
	}
}

func TestValidateRejectsNotAllowed(t *testing.T) {
	v := New(zap.NewNop())
	_, err := v.Validate("curl http://example.com")
	verr, ok := err.(*Error)
	if !ok || verr.Kind != KindNotAllowed {
		t.Fatalf("expected NotAllowed, got %v", err)
	}
}

func TestValidateRejectsEmpty(t *testing.T) {
	v := New(zap.NewNop())
	_, err := v.Validate("   ")
	verr, ok := err.(*Error)
	if !ok || verr.Kind != KindEmptyCommand {
		t.Fatalf("expected EmptyCommand, got %v", err)
	}
}

func TestValidateShellEscapeHatch(t *testing.T) {
	v := New(zap.NewNop())

	if _, err := v.Validate("sh -c ls"); err != nil {
		t.Errorf("sh -c ls should be accepted, got %v", err)
	}

	// not exactly "-c <script>"
	if _, err := v.Validate("sh -x ls"); err == nil {
		t.Errorf("sh -x ls should be rejected")
	}

	// inner head not allowlisted
	_, err := v.Validate("sh -c curl")
	verr, ok := err.(*Error)
	if !ok || verr.Kind != KindNotAllowed {
		t.Errorf("sh -c curl expected NotAllowed, got %v", err)
	}

	// inner script carrying a forbidden metacharacter
	_, err = v.Validate("sh -c 'ls | grep x'")
	verr, ok = err.(*Error)
	if !ok || verr.Kind != KindForbiddenPattern {
		t.Errorf("sh -c with piped inner script expected ForbiddenPattern, got %v", err)
	}

	// nested sh -c is rejected, not recursively accepted
	_, err = v.Validate(`sh -c "sh -c ls"`)
	if err == nil {
		t.Errorf("nested sh -c should be rejected")
	}
}

func TestValidateDeterminism(t *testing.T) {
	v := New(zap.NewNop())
	a, errA := v.Validate("ls /workspace")
	b, errB := v.Validate("ls /workspace")
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v %v", errA, errB)
	}
	if len(a) != len(b) {
		t.Fatalf("non-deterministic results: %v vs %v", a, b)
	}
}
