package cache

import "strings"

// delimiter never occurs inside an IP address (IPv6 included), so
// namespaces cannot collide with address or qualifier content.
const delimiter = "|"

// Key derives a deterministic cache key from a namespace, an IP address
// and optional qualifiers. Identical arguments always yield identical keys.
func Key(namespace string, ip string, qualifiers ...string) string {
	parts := make([]string, 0, 2+len(qualifiers))
	parts = append(parts, namespace, ip)
	for _, q := range qualifiers {
		if q == "" {
			continue
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, delimiter)
}
