package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.Engine, handlers *Handlers) {
	router.GET("/api/ip/:ip", handlers.GetIP)
	router.GET("/api/ip/:ip/geo", handlers.GetGeolocation)
	router.GET("/api/ip/:ip/security", handlers.GetSecurity)
	router.GET("/api/ip/:ip/network", handlers.GetNetwork)
	router.GET("/api/requests", handlers.GetRequests)
	router.GET("/api/stats", handlers.GetStats)
	router.POST("/api/cache/reset", handlers.ResetCache)
	router.GET("/api/docs", handlers.GetDocs)
}
