package provision

import (
	"strings"
	"unicode"
)

// DeriveAgentID normalizes a display name into the id used as the key for
// the workspace directory, gateway registration, config entries, and the
// dashboard. Lowercases and strips everything outside [a-z0-9-].
func DeriveAgentID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DisplayName upper-cases the first character of the name and leaves the
// rest unchanged. Callers normalize whitespace before deriving.
func DisplayName(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
