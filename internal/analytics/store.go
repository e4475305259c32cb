package analytics

import "sync"

// Record is one completed lookup request, kept for usage statistics.
type Record struct {
	Timestamp        int64  `json:"timestamp"`
	IP               string `json:"ip"`
	Endpoint         string `json:"endpoint"`
	Status           int    `json:"status"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
	RequestID        string `json:"request_id"`
	Country          string `json:"country,omitempty"`
	Datacenter       string `json:"datacenter,omitempty"`
	UserAgent        string `json:"user_agent,omitempty"`
}

// Store keeps the most recent records in memory, bounded by limit.
type Store struct {
	mu      sync.Mutex
	limit   int
	records []Record
}

func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = 1000
	}
	return &Store{
		limit:   limit,
		records: make([]Record, 0, limit),
	}
}

func (s *Store) Add(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	if len(s.records) > s.limit {
		s.records = append([]Record{}, s.records[len(s.records)-s.limit:]...)
	}
}

func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.records))
	out = append(out, s.records...)
	return out
}

func (s *Store) Limit() int {
	return s.limit
}

type Summary struct {
	Total           int            `json:"total"`
	ByEndpoint      map[string]int `json:"by_endpoint"`
	ByStatus        map[int]int    `json:"by_status"`
	AvgProcessingMs float64        `json:"avg_processing_ms"`
}

func (s *Store) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := Summary{
		Total:      len(s.records),
		ByEndpoint: map[string]int{},
		ByStatus:   map[int]int{},
	}
	var totalMs int64
	for _, record := range s.records {
		summary.ByEndpoint[record.Endpoint]++
		summary.ByStatus[record.Status]++
		totalMs += record.ProcessingTimeMs
	}
	if summary.Total > 0 {
		summary.AvgProcessingMs = float64(totalMs) / float64(summary.Total)
	}
	return summary
}
