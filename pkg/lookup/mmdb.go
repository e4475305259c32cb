package lookup

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// MMDBClient serves lookups from a local MaxMind city database instead of
// the hosted endpoint. It emits the same Result shape, so the rest of the
// pipeline does not care which provider produced the record.
type MMDBClient struct {
	db *geoip2.Reader
}

func NewMMDBClient(path string) (*MMDBClient, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mmdb: %w", err)
	}
	return &MMDBClient{db: db}, nil
}

func (c *MMDBClient) Fetch(_ context.Context, ip string) (*Result, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, fmt.Errorf("mmdb lookup: unparsable ip %q", ip)
	}
	record, err := c.db.City(parsed)
	if err != nil {
		return nil, fmt.Errorf("mmdb lookup %s: %w", ip, err)
	}

	result := &Result{
		IP:       ip,
		City:     record.City.Names["en"],
		Country:  record.Country.IsoCode,
		Postal:   record.Postal.Code,
		Timezone: record.Location.TimeZone,
	}
	if len(record.Subdivisions) > 0 {
		result.Region = record.Subdivisions[0].Names["en"]
	}
	if record.Location.Latitude != 0 || record.Location.Longitude != 0 {
		result.Loc = fmt.Sprintf("%.4f,%.4f", record.Location.Latitude, record.Location.Longitude)
	}
	return result, nil
}

func (c *MMDBClient) Close() error {
	return c.db.Close()
}
