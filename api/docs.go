package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) GetDocs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "ipinsight",
		"description": "Merges edge-supplied request metadata and external IP intelligence into one record with derived confidence and risk scores.",
		"endpoints": []gin.H{
			{"method": "GET", "path": "/api/ip/:ip", "description": "Full unified record for an IP; use 'self' for the caller's address"},
			{"method": "GET", "path": "/api/ip/:ip/geo", "description": "Geolocation view with accuracy classification"},
			{"method": "GET", "path": "/api/ip/:ip/security", "description": "Security view with threat level and risk score"},
			{"method": "GET", "path": "/api/ip/:ip/network", "description": "Network and connection view with quality grade"},
			{"method": "GET", "path": "/api/requests", "description": "Recent request log"},
			{"method": "GET", "path": "/api/stats", "description": "Cache, counter and request statistics"},
			{"method": "POST", "path": "/api/cache/reset", "description": "Clear the lookup and record caches"},
		},
		"edge_headers": []string{
			"X-Edge-Country", "X-Edge-Region", "X-Edge-City", "X-Edge-Postal-Code",
			"X-Edge-Timezone", "X-Edge-Latitude", "X-Edge-Longitude", "X-Edge-Continent",
			"X-Edge-Asn", "X-Edge-As-Organization", "X-Edge-Colo",
			"X-Edge-Http-Protocol", "X-Edge-Tls-Version", "X-Edge-Tls-Cipher",
			"X-Edge-Bot-Score", "X-Edge-Verified-Bot", "X-Edge-Static-Resource",
			"X-Edge-Rtt", "X-Edge-Priority",
		},
	})
}
