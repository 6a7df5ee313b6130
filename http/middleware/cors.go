package middlewares

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/config"
)

func CORSMiddleware(config *config.EnvConfig) gin.HandlerFunc {
	var origins []string
	for _, domain := range strings.Split(config.CORS.AllowDomains, ",") {
		if domain = strings.TrimSpace(domain); domain != "" {
			origins = append(origins, domain)
		}
	}
	global := strings.TrimPrefix(strings.TrimSpace(config.CORS.GlobalDomain), ".")

	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 && global == "" {
		cfg.AllowOriginFunc = func(string) bool { return true }
		return cors.New(cfg)
	}

	cfg.AllowOriginFunc = func(origin string) bool {
		for _, allowed := range origins {
			if origin == allowed {
				return true
			}
		}
		if global == "" {
			return false
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := u.Hostname()
		return host == global || strings.HasSuffix(host, "."+global)
	}
	return cors.New(cfg)
}
