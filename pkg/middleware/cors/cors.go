package cors

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exhibit-api/pkg/middleware/requestid"
)

// New builds the CORS middleware. An empty origin list allows any origin.
func New(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", requestid.HeaderKey, "X-Visitor-ID"},
		ExposeHeaders:    []string{requestid.HeaderKey},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	}

	origins := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if trimmed := strings.TrimRight(strings.TrimSpace(origin), "/"); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		// credentials forbid a literal "*", so echo the request origin instead
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
