package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/satheesh067/Flight-Price-Prediction/config"
)

// SetupCORS builds the CORS policy. "*" allows every origin without
// credentials; a comma-separated list allows exactly those origins.
func SetupCORS(cfg config.CORSConfig) gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", RequestIDHeader, "X-Next-Cursor"},
		MaxAge:        12 * time.Hour,
	}

	origins := splitOrigins(cfg.AllowedOrigins)
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		base.AllowAllOrigins = true
		return cors.New(base)
	}

	base.AllowOrigins = origins
	base.AllowCredentials = true
	return cors.New(base)
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
