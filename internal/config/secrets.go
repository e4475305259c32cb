package config

import (
	"os"
	"strings"
)

// ResolveSecret expands the lookup token's "env:NAME" and "file:/path"
// indirections so the raw secret never has to live in the config file.
func ResolveSecret(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return ""
	case strings.HasPrefix(value, "env:"):
		return os.Getenv(strings.TrimPrefix(value, "env:"))
	case strings.HasPrefix(value, "file:"):
		data, err := os.ReadFile(strings.TrimPrefix(value, "file:"))
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(data))
	default:
		return value
	}
}
