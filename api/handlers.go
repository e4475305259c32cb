package api

import (
	"encoding/json"
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"ipinsight/internal/analytics"
	"ipinsight/internal/logger"
	"ipinsight/internal/metrics"
	"ipinsight/pkg/cache"
	"ipinsight/pkg/edge"
	"ipinsight/pkg/ipaddr"
	"ipinsight/pkg/lookup"
	"ipinsight/pkg/reconcile"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Lookup    *lookup.CachedClient
	Records   *cache.TTLCache[reconcile.UnifiedRecord]
	RecordTTL time.Duration
	Analytics *analytics.Store
	Metrics   *metrics.Metrics
	Log       *logger.Logger
}

// resolve runs the shared pipeline: validate, serve from the record cache
// or rebuild from edge metadata plus the cached external lookup. It writes
// the error response itself when the input is rejected.
func (h *Handlers) resolve(c *gin.Context) (reconcile.UnifiedRecord, bool) {
	ip := c.Param("ip")
	if ip == "" || ip == "self" {
		ip = c.ClientIP()
	}

	result := ipaddr.Validate(ip)
	if !result.Valid {
		if h.Metrics != nil {
			h.Metrics.IncInvalidInput()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Reason})
		return reconcile.UnifiedRecord{}, false
	}

	var meta *edge.Metadata
	if raw := edge.FromHeaders(c.Request.Header); len(raw) > 0 {
		extracted := edge.Extract(raw)
		meta = &extracted
	}

	key := cache.Key("record", ip, edgeFingerprint(meta))
	if record, ok := h.Records.Get(key); ok {
		if h.Metrics != nil {
			h.Metrics.IncRecordCacheHit()
		}
		return record, true
	}
	if h.Metrics != nil {
		h.Metrics.IncRecordCacheMiss()
	}

	var external *lookup.Result
	if h.Lookup != nil {
		external = h.Lookup.Fetch(c.Request.Context(), ip)
		if external == nil && h.Log != nil {
			h.Log.Debug("external lookup unavailable", map[string]any{"ip": ip})
		}
	}

	record := reconcile.Reconcile(ip, result.Version, meta, external)
	h.Records.Set(key, record, h.RecordTTL)
	return record, true
}

// edgeFingerprint keys the record cache on the edge snapshot so two
// requests for the same address with different edge headers do not
// share a reconciled record. Nil metadata hashes to the empty
// qualifier, which Key drops.
func edgeFingerprint(meta *edge.Metadata) string {
	if meta == nil {
		return ""
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	sum := fnv.New64a()
	sum.Write(raw)
	return strconv.FormatUint(sum.Sum64(), 16)
}

func (h *Handlers) GetIP(c *gin.Context) {
	record, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handlers) GetGeolocation(c *gin.Context) {
	record, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record.Geolocation())
}

func (h *Handlers) GetSecurity(c *gin.Context) {
	record, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record.SecurityView())
}

func (h *Handlers) GetNetwork(c *gin.Context) {
	record, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record.NetworkView())
}

func (h *Handlers) GetRequests(c *gin.Context) {
	if h.Analytics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
		return
	}
	c.JSON(http.StatusOK, h.Analytics.List())
}

func (h *Handlers) GetStats(c *gin.Context) {
	payload := gin.H{
		"status":       "ok",
		"record_cache": h.Records.Stats(),
	}
	if h.Lookup != nil {
		payload["lookup_cache"] = h.Lookup.CacheStats()
	}
	if h.Metrics != nil {
		payload["counters"] = h.Metrics.Snapshot()
	}
	if h.Analytics != nil {
		payload["requests"] = h.Analytics.Summarize()
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handlers) ResetCache(c *gin.Context) {
	h.Records.Clear()
	if h.Lookup != nil {
		h.Lookup.ClearCache()
	}
	if h.Log != nil {
		h.Log.Info("caches cleared", nil)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
