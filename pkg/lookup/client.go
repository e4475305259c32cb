package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type ASN struct {
	ASN    string `json:"asn,omitempty"`
	Name   string `json:"name,omitempty"`
	Domain string `json:"domain,omitempty"`
	Route  string `json:"route,omitempty"`
	Type   string `json:"type,omitempty"`
}

type Privacy struct {
	VPN     bool   `json:"vpn"`
	Proxy   bool   `json:"proxy"`
	Tor     bool   `json:"tor"`
	Relay   bool   `json:"relay"`
	Hosting bool   `json:"hosting"`
	Service string `json:"service,omitempty"`
}

type Company struct {
	Name   string `json:"name,omitempty"`
	Domain string `json:"domain,omitempty"`
	Type   string `json:"type,omitempty"`
}

type Carrier struct {
	Name string `json:"name,omitempty"`
	MCC  string `json:"mcc,omitempty"`
	MNC  string `json:"mnc,omitempty"`
}

// Result is the intelligence record for one IP. A nil *Result is a valid
// outcome meaning the lookup failed or returned nothing usable.
type Result struct {
	IP       string   `json:"ip"`
	Hostname string   `json:"hostname,omitempty"`
	City     string   `json:"city,omitempty"`
	Region   string   `json:"region,omitempty"`
	Country  string   `json:"country,omitempty"`
	Loc      string   `json:"loc,omitempty"`
	Postal   string   `json:"postal,omitempty"`
	Timezone string   `json:"timezone,omitempty"`
	Org      string   `json:"org,omitempty"`
	ASN      *ASN     `json:"asn,omitempty"`
	Privacy  *Privacy `json:"privacy,omitempty"`
	Company  *Company `json:"company,omitempty"`
	Carrier  *Carrier `json:"carrier,omitempty"`
}

type Provider interface {
	Fetch(ctx context.Context, ip string) (*Result, error)
}

// HTTPClient queries an ipinfo-style endpoint:
// GET <endpoint>/<ip>/json?token=<token>.
type HTTPClient struct {
	endpoint string
	token    string
	http     *http.Client
}

func NewHTTPClient(endpoint string, token string, timeout time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &HTTPClient{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Fetch(ctx context.Context, ip string) (*Result, error) {
	target := c.endpoint + "/" + ip + "/json"
	if c.token != "" {
		target += "?token=" + url.QueryEscape(c.token)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", ip, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("lookup %s: status %d", ip, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode lookup %s: %w", ip, err)
	}
	if result.IP == "" {
		result.IP = ip
	}
	return &result, nil
}
