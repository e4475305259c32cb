package ipaddr

import "regexp"

const (
	ReasonRequired     = "address required"
	ReasonUnrecognized = "unrecognized format"
)

type Result struct {
	Valid   bool   `json:"valid"`
	Version int    `json:"version,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

var (
	// Dotted quad with each octet 0-255; tolerates a trailing dot after
	// the last octet.
	ipv4Pattern = regexp.MustCompile(`^((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.?$`)

	// All eight canonical hextet groupings, :: compression, link-local
	// zone ids and IPv4-mapped suffixes.
	ipv6Pattern = regexp.MustCompile(`^(` +
		`([0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}|` +
		`([0-9a-fA-F]{1,4}:){1,7}:|` +
		`([0-9a-fA-F]{1,4}:){1,6}:[0-9a-fA-F]{1,4}|` +
		`([0-9a-fA-F]{1,4}:){1,5}(:[0-9a-fA-F]{1,4}){1,2}|` +
		`([0-9a-fA-F]{1,4}:){1,4}(:[0-9a-fA-F]{1,4}){1,3}|` +
		`([0-9a-fA-F]{1,4}:){1,3}(:[0-9a-fA-F]{1,4}){1,4}|` +
		`([0-9a-fA-F]{1,4}:){1,2}(:[0-9a-fA-F]{1,4}){1,5}|` +
		`[0-9a-fA-F]{1,4}:((:[0-9a-fA-F]{1,4}){1,6})|` +
		`:((:[0-9a-fA-F]{1,4}){1,7}|:)|` +
		`fe80:(:[0-9a-fA-F]{0,4}){0,4}%[0-9a-zA-Z]+|` +
		`::(ffff(:0{1,4})?:)?((25[0-5]|(2[0-4]|1?[0-9])?[0-9])\.){3}(25[0-5]|(2[0-4]|1?[0-9])?[0-9])|` +
		`([0-9a-fA-F]{1,4}:){1,4}:((25[0-5]|(2[0-4]|1?[0-9])?[0-9])\.){3}(25[0-5]|(2[0-4]|1?[0-9])?[0-9])` +
		`)$`)
)

// Validate classifies raw as an IPv4 address, an IPv6 address or invalid.
// Purely syntactic: no DNS, no network access.
func Validate(raw string) Result {
	if raw == "" {
		return Result{Reason: ReasonRequired}
	}
	if ipv4Pattern.MatchString(raw) {
		return Result{Valid: true, Version: 4}
	}
	if ipv6Pattern.MatchString(raw) {
		return Result{Valid: true, Version: 6}
	}
	return Result{Reason: ReasonUnrecognized}
}
