package models

import "testing"

func TestMessageIsValid(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
		want bool
	}{
		{"valid user", Message{Role: RoleUser, Content: "hi"}, true},
		{"empty user content", Message{Role: RoleUser, Content: ""}, false},
		{"assistant with tool calls only", Message{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "1", Name: "x"}}}, true},
		{"tool without call id", Message{Role: RoleTool, Content: "out"}, false},
		{"tool with call id", Message{Role: RoleTool, Content: "out", ToolCallID: "abc"}, true},
		{"unknown role", Message{Role: "bogus", Content: "x"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.msg.IsValid(); got != c.want {
				t.Errorf("IsValid() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCanonicalSignature(t *testing.T) {
	a := CanonicalSignature("shell-exec", map[string]interface{}{"command": "  pwd  "})
	b := CanonicalSignature("shell-exec", map[string]interface{}{"command": "pwd"})
	if a != b {
		t.Errorf("expected whitespace-normalised signatures to match: %q != %q", a, b)
	}

	c := CanonicalSignature("shell-exec", map[string]interface{}{"b": "2", "a": "1"})
	d := CanonicalSignature("shell-exec", map[string]interface{}{"a": "1", "b": "2"})
	if c != d {
		t.Errorf("expected key order to be irrelevant: %q != %q", c, d)
	}
}
