package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	service string
	version string
	routes  map[string]string
}

func NewHealthHandler(service, version string, routes map[string]string) *HealthHandler {
	return &HealthHandler{service: service, version: version, routes: routes}
}

// GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Welcome to " + h.service,
		"version":   h.version,
		"endpoints": h.routes,
	})
}

// GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
