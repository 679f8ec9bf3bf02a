package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dawapos/backend/internal/infrastructure/config"
)

// CORS handles cross-origin requests against the configured origin
// whitelist. An empty whitelist rejects all cross-origin requests.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	allowWildcard := false
	for _, origin := range cfg.CORSAllowOrigins {
		if origin == "*" {
			allowWildcard = true
			break
		}
	}
	allowMethods := strings.Join(cfg.CORSAllowMethods, ", ")
	allowHeaders := strings.Join(cfg.CORSAllowHeaders, ", ")

	originAllowed := func(origin string) bool {
		if origin == "" {
			return false
		}
		if allowWildcard {
			return true
		}
		for _, o := range cfg.CORSAllowOrigins {
			if o == origin {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if originAllowed(origin) {
			header := c.Writer.Header()
			if allowWildcard {
				header.Set("Access-Control-Allow-Origin", "*")
			} else {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Vary", "Origin")
				header.Set("Access-Control-Allow-Credentials", "true")
			}
			header.Set("Access-Control-Allow-Methods", allowMethods)
			header.Set("Access-Control-Allow-Headers", allowHeaders)
		}

		// Preflight requests always get 204, with CORS headers only
		// when the origin passed the whitelist.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
