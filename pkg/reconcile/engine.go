package reconcile

import (
	"strconv"
	"strings"

	"ipinsight/pkg/edge"
	"ipinsight/pkg/lookup"
)

const (
	SourceEdge     = "edge_metadata"
	SourceExternal = "external_lookup"

	AccuracyHigh   = "high"
	AccuracyMedium = "medium"
	AccuracyLow    = "low"

	ThreatHigh   = "high"
	ThreatMedium = "medium"
	ThreatLow    = "low"

	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityFair      = "fair"
	QualityPoor      = "poor"
)

type Location struct {
	Country       string   `json:"country,omitempty"`
	Region        string   `json:"region,omitempty"`
	City          string   `json:"city,omitempty"`
	PostalCode    string   `json:"postal_code,omitempty"`
	Timezone      string   `json:"timezone,omitempty"`
	ContinentCode string   `json:"continent_code,omitempty"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Accuracy      string   `json:"accuracy"`
	Sources       []string `json:"sources"`
}

type Network struct {
	ASN          int    `json:"asn"`
	Organization string `json:"organization,omitempty"`
	Hostname     string `json:"hostname,omitempty"`
	Route        string `json:"route,omitempty"`
	Type         string `json:"type,omitempty"`
	EdgeNode     string `json:"edge_node,omitempty"`
}

type Security struct {
	BotScore       *int   `json:"bot_score,omitempty"`
	VerifiedBot    bool   `json:"verified_bot"`
	StaticResource bool   `json:"static_resource"`
	VPN            bool   `json:"vpn"`
	Proxy          bool   `json:"proxy"`
	Tor            bool   `json:"tor"`
	Relay          bool   `json:"relay"`
	Hosting        bool   `json:"hosting"`
	PrivacyService string `json:"privacy_service,omitempty"`
	RiskScore      int    `json:"risk_score"`
	ThreatLevel    string `json:"threat_level"`
	Malicious      bool   `json:"malicious"`
}

type Connection struct {
	HTTPProtocol string `json:"http_protocol,omitempty"`
	TLSVersion   string `json:"tls_version,omitempty"`
	TLSCipher    string `json:"tls_cipher,omitempty"`
	RTTMs        *int   `json:"rtt_ms,omitempty"`
	Priority     string `json:"priority,omitempty"`
	Quality      string `json:"quality"`
}

type Sources struct {
	EdgeMetadata   bool     `json:"edge_metadata"`
	ExternalLookup bool     `json:"external_lookup"`
	ComputedFields []string `json:"computed_fields"`
}

// UnifiedRecord is the merged view of one IP, built fresh on every call
// and never mutated afterwards.
type UnifiedRecord struct {
	IP         string     `json:"ip"`
	IPVersion  int        `json:"ip_version"`
	Location   Location   `json:"location"`
	Network    Network    `json:"network"`
	Security   Security   `json:"security"`
	Connection Connection `json:"connection"`
	Sources    Sources    `json:"sources"`
}

// Reconcile merges edge metadata and an external lookup result into one
// record. Either input may be nil; the merge is pure, deterministic and
// never fails. Overlapping fields prefer the edge value.
func Reconcile(ip string, version int, meta *edge.Metadata, ext *lookup.Result) UnifiedRecord {
	var m edge.Metadata
	if meta != nil {
		m = *meta
	}
	var x lookup.Result
	if ext != nil {
		x = *ext
	}

	return UnifiedRecord{
		IP:         ip,
		IPVersion:  version,
		Location:   buildLocation(m, x, ext != nil),
		Network:    buildNetwork(m, x),
		Security:   buildSecurity(m, x),
		Connection: buildConnection(m),
		Sources: Sources{
			EdgeMetadata:   meta != nil,
			ExternalLookup: ext != nil,
			ComputedFields: []string{
				"location.accuracy",
				"security.risk_score",
				"security.threat_level",
				"security.malicious",
				"connection.quality",
			},
		},
	}
}

func buildLocation(m edge.Metadata, x lookup.Result, extPresent bool) Location {
	lat, lon := coordinates(m.Latitude, m.Longitude, x.Loc)

	sources := []string{}
	if m.Country != "" {
		sources = append(sources, SourceEdge)
	}
	if extPresent {
		sources = append(sources, SourceExternal)
	}

	return Location{
		Country:       prefer(m.Country, x.Country),
		Region:        prefer(m.Region, x.Region),
		City:          prefer(m.City, x.City),
		PostalCode:    prefer(m.PostalCode, x.Postal),
		Timezone:      prefer(m.Timezone, x.Timezone),
		ContinentCode: m.ContinentCode,
		Latitude:      lat,
		Longitude:     lon,
		Accuracy:      classifyAccuracy(len(sources), lat, lon),
		Sources:       sources,
	}
}

func buildNetwork(m edge.Metadata, x lookup.Result) Network {
	network := Network{
		ASN:      asNumber(m.ASN, x.ASN),
		Hostname: x.Hostname,
		EdgeNode: m.Colo,
	}
	org := ""
	if x.ASN != nil {
		org = x.ASN.Name
		network.Route = x.ASN.Route
		network.Type = x.ASN.Type
	}
	if org == "" {
		org = x.Org
	}
	network.Organization = prefer(m.ASOrganization, org)
	return network
}

func buildSecurity(m edge.Metadata, x lookup.Result) Security {
	sec := Security{
		VerifiedBot:    m.VerifiedBot,
		StaticResource: m.StaticResource,
	}
	if m.BotScore != nil {
		score := *m.BotScore
		sec.BotScore = &score
	}
	if x.Privacy != nil {
		sec.VPN = x.Privacy.VPN
		sec.Proxy = x.Privacy.Proxy
		sec.Tor = x.Privacy.Tor
		sec.Relay = x.Privacy.Relay
		sec.Hosting = x.Privacy.Hosting
		sec.PrivacyService = x.Privacy.Service
	}

	sec.RiskScore = riskScore(sec.BotScore, sec.Tor, sec.VPN, sec.Proxy, sec.Hosting)
	sec.ThreatLevel = classifyThreat(sec.RiskScore)
	sec.Malicious = sec.ThreatLevel == ThreatHigh || (sec.Tor && sec.Proxy)
	return sec
}

func buildConnection(m edge.Metadata) Connection {
	conn := Connection{
		HTTPProtocol: m.HTTPProtocol,
		TLSVersion:   m.TLSVersion,
		TLSCipher:    m.TLSCipher,
		Priority:     m.Priority,
	}
	if m.RTTMs != nil {
		rtt := *m.RTTMs
		conn.RTTMs = &rtt
	}
	conn.Quality = classifyQuality(connectionScore(conn.HTTPProtocol, conn.TLSVersion, conn.RTTMs))
	return conn
}

// coordinates prefers explicit edge lat/lon strings, then a combined
// "lat,lon" string from the external result, then (0, 0).
func coordinates(latRaw string, lonRaw string, combined string) (float64, float64) {
	if latRaw != "" && lonRaw != "" {
		lat, errLat := strconv.ParseFloat(latRaw, 64)
		lon, errLon := strconv.ParseFloat(lonRaw, 64)
		if errLat == nil && errLon == nil {
			return lat, lon
		}
	}
	if combined != "" {
		parts := strings.SplitN(combined, ",", 2)
		if len(parts) == 2 {
			lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errLat == nil && errLon == nil {
				return lat, lon
			}
		}
	}
	return 0, 0
}

func classifyAccuracy(sourceCount int, lat float64, lon float64) string {
	if sourceCount >= 2 && lat != 0 && lon != 0 {
		return AccuracyHigh
	}
	if sourceCount >= 1 {
		return AccuracyMedium
	}
	return AccuracyLow
}

// riskScore bands the bot score most-restrictive first (the bands are
// mutually exclusive) and adds each privacy flag independently.
func riskScore(botScore *int, tor bool, vpn bool, proxy bool, hosting bool) int {
	score := 0
	if botScore != nil {
		switch {
		case *botScore < 30:
			score += 3
		case *botScore < 50:
			score += 2
		case *botScore < 80:
			score += 1
		}
	}
	if tor {
		score += 3
	}
	if vpn {
		score += 2
	}
	if proxy {
		score += 2
	}
	if hosting {
		score += 1
	}
	return score
}

func classifyThreat(score int) string {
	switch {
	case score >= 5:
		return ThreatHigh
	case score >= 3:
		return ThreatMedium
	default:
		return ThreatLow
	}
}

func connectionScore(protocol string, tlsVersion string, rtt *int) int {
	score := 0
	switch protocol {
	case "HTTP/3":
		score += 3
	case "HTTP/2":
		score += 2
	case "HTTP/1.1":
		score += 1
	}
	switch tlsVersion {
	case "TLSv1.3":
		score += 2
	case "TLSv1.2":
		score += 1
	}
	if rtt != nil {
		switch {
		case *rtt < 50:
			score += 2
		case *rtt < 100:
			score += 1
		}
	}
	return score
}

func classifyQuality(score int) string {
	switch {
	case score >= 6:
		return QualityExcellent
	case score >= 4:
		return QualityGood
	case score >= 2:
		return QualityFair
	default:
		return QualityPoor
	}
}

// asNumber prefers the edge-supplied AS number, then an external "AS<n>"
// identifier, then 0.
func asNumber(edgeASN int, ext *lookup.ASN) int {
	if edgeASN != 0 {
		return edgeASN
	}
	if ext != nil && strings.HasPrefix(ext.ASN, "AS") {
		if n, err := strconv.Atoi(strings.TrimPrefix(ext.ASN, "AS")); err == nil {
			return n
		}
	}
	return 0
}

func prefer(edgeValue string, externalValue string) string {
	if edgeValue != "" {
		return edgeValue
	}
	return externalValue
}
