package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CORSConfig holds CORS middleware configuration
type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
	MaxAge        time.Duration
}

// DefaultCORSConfig returns default CORS configuration.
// AllowOrigins is empty by default; without explicit configuration all
// cross-origin requests are rejected.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  []string{},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "X-Request-ID", "X-Telegram-Bot-Api-Secret-Token", "Accept", "Origin"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
}

// CORSWithConfig returns a CORS middleware with custom configuration
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	allowWildcard := false
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			allowWildcard = true
			break
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Preflight requests are always answered with 204; CORS headers are
		// only attached when the origin is allowed.
		if c.Request.Method == http.MethodOptions {
			if allowWildcard {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				setCORSHeaders(c, cfg)
			} else {
				for _, o := range cfg.AllowOrigins {
					if o == origin {
						c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
						setCORSHeaders(c, cfg)
						break
					}
				}
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if len(cfg.AllowOrigins) == 0 {
			c.Next()
			return
		}

		allowedOrigin := ""
		if allowWildcard {
			allowedOrigin = "*"
		} else {
			for _, o := range cfg.AllowOrigins {
				if o == origin {
					allowedOrigin = origin
					break
				}
			}
		}

		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			setCORSHeaders(c, cfg)
		}

		c.Next()
	}
}

func setCORSHeaders(c *gin.Context, cfg CORSConfig) {
	c.Writer.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
	c.Writer.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))

	if len(cfg.ExposeHeaders) > 0 {
		c.Writer.Header().Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
	}

	if cfg.MaxAge > 0 {
		c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
	}
}

// RequestID adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}
