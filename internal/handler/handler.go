package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the process-health endpoints outside the API prefix.
type Handler struct {
	ServiceName string
	Version     string
}

func NewHandler(serviceName, version string) *Handler {
	return &Handler{
		ServiceName: serviceName,
		Version:     version,
	}
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.ServiceName,
		"version": h.Version,
		"status":  "running",
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
