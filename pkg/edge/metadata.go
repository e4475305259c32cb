package edge

import (
	"net/http"
	"strconv"
	"strings"
)

// Metadata is an immutable snapshot of the request attributes the edge
// network attaches before the request reaches this service. Every field
// is optional; pointer fields distinguish absent from zero where the
// scoring rules care about the difference.
type Metadata struct {
	Country       string `json:"country,omitempty"`
	Region        string `json:"region,omitempty"`
	City          string `json:"city,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
	Latitude      string `json:"latitude,omitempty"`
	Longitude     string `json:"longitude,omitempty"`
	ContinentCode string `json:"continent_code,omitempty"`

	ASN            int    `json:"asn,omitempty"`
	ASOrganization string `json:"as_organization,omitempty"`
	Colo           string `json:"colo,omitempty"`
	HTTPProtocol   string `json:"http_protocol,omitempty"`
	TLSVersion     string `json:"tls_version,omitempty"`
	TLSCipher      string `json:"tls_cipher,omitempty"`

	BotScore       *int `json:"bot_score,omitempty"`
	VerifiedBot    bool `json:"verified_bot,omitempty"`
	StaticResource bool `json:"static_resource,omitempty"`

	RTTMs    *int   `json:"rtt_ms,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// Extract builds a Metadata snapshot from the platform's free-form
// per-request object. Missing keys, wrongly typed values and a missing
// nested bot-management block all yield absent fields, never an error.
func Extract(raw map[string]any) Metadata {
	meta := Metadata{
		Country:        stringField(raw, "country"),
		Region:         stringField(raw, "region"),
		City:           stringField(raw, "city"),
		PostalCode:     stringField(raw, "postalCode"),
		Timezone:       stringField(raw, "timezone"),
		Latitude:       stringField(raw, "latitude"),
		Longitude:      stringField(raw, "longitude"),
		ContinentCode:  stringField(raw, "continent"),
		ASN:            intField(raw, "asn"),
		ASOrganization: stringField(raw, "asOrganization"),
		Colo:           stringField(raw, "colo"),
		HTTPProtocol:   stringField(raw, "httpProtocol"),
		TLSVersion:     stringField(raw, "tlsVersion"),
		TLSCipher:      stringField(raw, "tlsCipher"),
		RTTMs:          intPtrField(raw, "clientTcpRtt"),
		Priority:       stringField(raw, "requestPriority"),
	}
	if bot, ok := raw["botManagement"].(map[string]any); ok {
		meta.BotScore = intPtrField(bot, "score")
		meta.VerifiedBot = boolField(bot, "verifiedBot")
		meta.StaticResource = boolField(bot, "staticResource")
	}
	return meta
}

// FromHeaders rebuilds the platform metadata object from forwarded
// X-Edge-* headers, for deployments where the edge injects metadata as
// headers instead of a structured object.
func FromHeaders(h http.Header) map[string]any {
	raw := map[string]any{}
	setString := func(header string, key string) {
		if value := strings.TrimSpace(h.Get(header)); value != "" {
			raw[key] = value
		}
	}
	setInt := func(header string, key string) {
		value := strings.TrimSpace(h.Get(header))
		if value == "" {
			return
		}
		if n, err := strconv.Atoi(value); err == nil {
			raw[key] = n
		}
	}

	setString("X-Edge-Country", "country")
	setString("X-Edge-Region", "region")
	setString("X-Edge-City", "city")
	setString("X-Edge-Postal-Code", "postalCode")
	setString("X-Edge-Timezone", "timezone")
	setString("X-Edge-Latitude", "latitude")
	setString("X-Edge-Longitude", "longitude")
	setString("X-Edge-Continent", "continent")
	setInt("X-Edge-Asn", "asn")
	setString("X-Edge-As-Organization", "asOrganization")
	setString("X-Edge-Colo", "colo")
	setString("X-Edge-Http-Protocol", "httpProtocol")
	setString("X-Edge-Tls-Version", "tlsVersion")
	setString("X-Edge-Tls-Cipher", "tlsCipher")
	setInt("X-Edge-Rtt", "clientTcpRtt")
	setString("X-Edge-Priority", "requestPriority")

	bot := map[string]any{}
	if value := strings.TrimSpace(h.Get("X-Edge-Bot-Score")); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			bot["score"] = n
		}
	}
	if value := strings.TrimSpace(h.Get("X-Edge-Verified-Bot")); value != "" {
		bot["verifiedBot"] = value == "true" || value == "1"
	}
	if value := strings.TrimSpace(h.Get("X-Edge-Static-Resource")); value != "" {
		bot["staticResource"] = value == "true" || value == "1"
	}
	if len(bot) > 0 {
		raw["botManagement"] = bot
	}
	return raw
}

func stringField(raw map[string]any, key string) string {
	if value, ok := raw[key].(string); ok {
		return value
	}
	return ""
}

func intField(raw map[string]any, key string) int {
	value, ok := asInt(raw[key])
	if !ok {
		return 0
	}
	return value
}

func intPtrField(raw map[string]any, key string) *int {
	value, ok := asInt(raw[key])
	if !ok {
		return nil
	}
	return &value
}

func boolField(raw map[string]any, key string) bool {
	value, ok := raw[key].(bool)
	return ok && value
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
