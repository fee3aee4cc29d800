package middleware

import (
	"log/slog"
	"strings"

	"car-rental-core/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	requiredAllowHeaders  = []string{"Authorization", "Content-Type", "Idempotency-Key", RequestIDHeader}
	requiredExposeHeaders = []string{"Retry-After", RequestIDHeader}
)

// NewCORSMiddleware always allows the headers the reservation API depends on,
// whatever the environment lists.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     mergeHeaders(cfg.AllowHeaders, requiredAllowHeaders),
		ExposeHeaders:    mergeHeaders(cfg.ExposeHeaders, requiredExposeHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized",
		"allow_origins", corsCfg.AllowOrigins,
		"allow_headers", corsCfg.AllowHeaders,
		"expose_headers", corsCfg.ExposeHeaders)
	return cors.New(corsCfg)
}

func mergeHeaders(configured, required []string) []string {
	seen := make(map[string]struct{}, len(configured)+len(required))
	out := make([]string, 0, len(configured)+len(required))
	for _, h := range append(append([]string{}, configured...), required...) {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		key := strings.ToLower(h)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}
