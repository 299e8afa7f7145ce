package utils

import "regexp"

var sanitizePatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)(sk|pk)_(test|live)_[a-zA-Z0-9]{20,}`), "[REDACTED_API_KEY]"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`), "sk-[REDACTED]"},
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{20,}`), "sk-ant-[REDACTED]"},
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`), "[REDACTED_GOOGLE_API_KEY]"},
	{regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9.\-_]+`), "Bearer [REDACTED]"},
	{regexp.MustCompile(`ey[A-Za-z0-9-_=]+\.ey[A-Za-z0-9-_=]+\.[A-Za-z0-9-_.+/=]+`), "[REDACTED_JWT]"},
	{regexp.MustCompile(`("access_token"|"refresh_token"|"client_secret"|"api_key"|"password"|"token")\s*:\s*"[^"]+"`), `${1}:"[REDACTED]"`},
	{regexp.MustCompile(`(?im)^(API_KEY|ACCESS_TOKEN|CLIENT_SECRET|SECRET|PASSWORD)\s*=\s*.*$`), "$1=[REDACTED]"},
}

// Sanitize masks credential-shaped substrings before text reaches a trace
// record or a log line. Exec output and fetch bodies both pass through this
// before they are stored.
func Sanitize(s string) string {
	out := s
	for _, p := range sanitizePatterns {
		out = p.re.ReplaceAllString(out, p.repl)
	}
	return out
}
