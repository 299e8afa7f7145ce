// Package validator implements the Command Validator (C1): it accepts only
// commands whose head token lies in a fixed allowlist and whose argv
// contains no shell metacharacters, without ever invoking a shell itself.
package validator

import (
	"strings"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
)

// Allowlist is the fixed, compile-time set of permitted head tokens.
var Allowlist = map[string]bool{
	// file inspection
	"ls": true, "cat": true, "head": true, "tail": true, "wc": true, "file": true, "stat": true,
	// text processing
	"grep": true, "sed": true, "awk": true, "sort": true, "uniq": true, "cut": true, "tr": true,
	// traversal
	"find": true, "pwd": true, "echo": true,
	// safe mutation within workspace
	"mkdir": true, "touch": true, "cp": true, "mv": true, "rm": true,
	// shell forms, restricted by the escape hatch below
	"sh": true, "bash": true,
}

var forbiddenSubstrings = []string{"|", "&", ";", ">", "<", "`", "$(", "${", "\n", "\r"}

// Validator is a pure function object: identical input yields identical
// output (§8 "Validator determinism").
type Validator struct {
	logger *zap.Logger
}

// New builds a Validator.
func New(logger *zap.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate parses cmd and returns its accepted argv, or an *Error naming
// the rejection reason.
func (v *Validator) Validate(cmd string) ([]string, error) {
	return v.validate(cmd, 0)
}

// validate recurses once, for the sh -c / bash -c escape hatch.
func (v *Validator) validate(cmd string, depth int) ([]string, error) {
	if err := checkForbidden(cmd); err != nil {
		return nil, err
	}

	tokens, err := tokenize(cmd)
	if err != nil {
		return nil, &Error{Kind: KindBadShellForm, Command: cmd}
	}
	if len(tokens) == 0 {
		return nil, &Error{Kind: KindEmptyCommand, Command: cmd}
	}

	head := tokens[0]
	if !Allowlist[head] {
		return nil, &Error{Kind: KindNotAllowed, Command: cmd, Head: head}
	}

	if head == "sh" || head == "bash" {
		return v.validateShellForm(cmd, tokens, depth)
	}

	return tokens, nil
}

// validateShellForm enforces step 5: sh/bash is only accepted as
// `sh -c <script>` (exactly three tokens total), with the inner script
// re-validated from scratch, including its own head token.
func (v *Validator) validateShellForm(cmd string, tokens []string, depth int) ([]string, error) {
	if depth > 0 {
		// The escape hatch is not itself recursive: sh -c 'sh -c ...' is
		// rejected because the inner script's head token must be in the
		// allowlist, and sh/bash alone (without "-c <script>") never
		// passes the inner validate() call below.
		return nil, &Error{Kind: KindBadShellForm, Command: cmd}
	}
	if len(tokens) != 3 || tokens[1] != "-c" {
		return nil, &Error{Kind: KindBadShellForm, Command: cmd}
	}
	script := tokens[2]

	if err := checkForbidden(script); err != nil {
		return nil, err
	}
	innerTokens, err := tokenize(script)
	if err != nil || len(innerTokens) == 0 {
		return nil, &Error{Kind: KindBadShellForm, Command: cmd}
	}
	if !Allowlist[innerTokens[0]] {
		return nil, &Error{Kind: KindNotAllowed, Command: cmd, Head: innerTokens[0]}
	}
	// sh -c 'sh -c ...' must still fail: the inner head being sh/bash
	// itself is rejected since it can't recurse through this path again
	// (depth guard above handles it if reached via validate()).
	if innerTokens[0] == "sh" || innerTokens[0] == "bash" {
		return nil, &Error{Kind: KindBadShellForm, Command: cmd}
	}

	return tokens, nil
}

func checkForbidden(s string) error {
	for _, bad := range forbiddenSubstrings {
		if strings.Contains(s, bad) {
			return &Error{Kind: KindForbiddenPattern, Command: s}
		}
	}
	return nil
}

func tokenize(s string) ([]string, error) {
	parser := shellwords.NewParser()
	return parser.Parse(s)
}
