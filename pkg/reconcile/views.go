package reconcile

// The focused records are projections of a full UnifiedRecord, so a
// narrow view can never disagree with the matching section of the full
// merge for the same inputs.

type GeolocationRecord struct {
	IP        string   `json:"ip"`
	IPVersion int      `json:"ip_version"`
	Location  Location `json:"location"`
	Sources   Sources  `json:"sources"`
}

type SecurityRecord struct {
	IP        string   `json:"ip"`
	IPVersion int      `json:"ip_version"`
	Security  Security `json:"security"`
	Sources   Sources  `json:"sources"`
}

type NetworkRecord struct {
	IP         string     `json:"ip"`
	IPVersion  int        `json:"ip_version"`
	Network    Network    `json:"network"`
	Connection Connection `json:"connection"`
	Sources    Sources    `json:"sources"`
}

func (r UnifiedRecord) Geolocation() GeolocationRecord {
	return GeolocationRecord{
		IP:        r.IP,
		IPVersion: r.IPVersion,
		Location:  r.Location,
		Sources:   r.Sources,
	}
}

func (r UnifiedRecord) SecurityView() SecurityRecord {
	return SecurityRecord{
		IP:        r.IP,
		IPVersion: r.IPVersion,
		Security:  r.Security,
		Sources:   r.Sources,
	}
}

func (r UnifiedRecord) NetworkView() NetworkRecord {
	return NetworkRecord{
		IP:         r.IP,
		IPVersion:  r.IPVersion,
		Network:    r.Network,
		Connection: r.Connection,
		Sources:    r.Sources,
	}
}
