package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const logIDKey = "log_id"

// requestLogID returns the correlation id assigned to this request.
func requestLogID(c *gin.Context) string {
	return c.GetString(logIDKey)
}

// requestLogger tags every request with a correlation id and logs the
// outcome once the handler chain has finished.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		logID := uuid.NewString()
		c.Set(logIDKey, logID)
		c.Next()

		status := c.Writer.Status()
		switch {
		case status >= 500:
			log.Printf("[%s] %s %s failed with %d", logID, c.Request.Method, c.Request.URL.Path, status)
		case status == http.StatusUnauthorized || status == http.StatusForbidden ||
			status == http.StatusNotFound || status == http.StatusPaymentRequired:
			log.Printf("[%s] request to %s rejected with %d", logID, c.Request.URL.Path, status)
		default:
			log.Printf("[%s] %s %s -> %d", logID, c.Request.Method, c.Request.URL.Path, status)
		}
	}
}

// recovery converts panics into a generic failure response; no partial
// success ever leaks to the client.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[%s] panic serving %s: %v", requestLogID(c), c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false})
	})
}
