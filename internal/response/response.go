// Package response centralizes the API wire contract: JSON on success,
// plain text bodies on failure.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK sends the canonical success body.
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// JSON sends an arbitrary JSON payload.
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// PlainError sends a plain-text error body, matching the original API
// surface consumed by existing clients.
func PlainError(c *gin.Context, statusCode int, message string) {
	c.String(statusCode, message)
}

// ValidationError sends field-level binding failures as JSON.
func ValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": fields,
	})
}
