package httpserver

import (
	"github.com/gin-gonic/gin"

	"lacri-bot/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "lacri.ai is watching"
	HealthVersion = "1.0.0"
	ServiceName   = "lacri-bot"
)

// healthCheck handles health check requests
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck returns ready once the bot is receiving updates.
func (srv HTTPServer) readyCheck(c *gin.Context) {
	if !srv.ready.Load() {
		response.ServiceUnavailable(c, gin.H{
			"status":  "starting",
			"service": ServiceName,
		})
		return
	}
	response.OK(c, gin.H{
		"status":  "ready",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// liveCheck handles liveness check requests
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}
