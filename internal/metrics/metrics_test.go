package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSnapshotCounts(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.IncRequest("/api/ip/:ip")
	m.IncRequest("/api/ip/:ip")
	m.IncRequest("/api/stats")
	m.IncInvalidInput()
	m.IncLookupCacheHit()
	m.IncLookupCacheMiss()
	m.IncRecordCacheHit()
	m.IncUpstreamLookup()
	m.IncUpstreamError()

	snapshot := m.Snapshot()
	if snapshot.Requests != 3 {
		t.Fatalf("expected 3 requests, got %d", snapshot.Requests)
	}
	if snapshot.RequestsByEndpoint["/api/ip/:ip"] != 2 {
		t.Fatalf("expected 2 requests for ip endpoint, got %d", snapshot.RequestsByEndpoint["/api/ip/:ip"])
	}
	if snapshot.InvalidInputs != 1 || snapshot.LookupCacheHits != 1 || snapshot.LookupCacheMisses != 1 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
	if snapshot.RecordCacheHits != 1 || snapshot.UpstreamLookups != 1 || snapshot.UpstreamErrors != 1 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestSnapshotCopiesEndpointMap(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.IncRequest("/api/stats")

	snapshot := m.Snapshot()
	snapshot.RequestsByEndpoint["/api/stats"] = 99
	if m.Snapshot().RequestsByEndpoint["/api/stats"] != 1 {
		t.Fatalf("expected snapshot to be a copy")
	}
}

func TestIncRequestEmptyEndpoint(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.IncRequest("")
	if m.Snapshot().RequestsByEndpoint["unknown"] != 1 {
		t.Fatalf("expected empty endpoint to be bucketed as unknown")
	}
}
