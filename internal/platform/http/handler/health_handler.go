// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
)

// Health handles /healthz. Responses are never cached.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Welcome answers GET / with a plain-text greeting.
func Welcome(c *gin.Context) {
	c.String(http.StatusOK, "welcome")
}

// NoRoute is the fallback for unmatched routes.
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, api.MessageResponse{Message: "Page not found"})
}
