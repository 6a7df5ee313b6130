package middlewares

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tnqbao/gau-wiki-gateway/config"
	"github.com/tnqbao/gau-wiki-gateway/infra"
	"github.com/tnqbao/gau-wiki-gateway/utils"
)

type TokenChecker interface {
	CheckAccessToken(ctx context.Context, token string) error
}

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(authService TokenChecker, config *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := utils.ExtractToken(c)
		if tokenStr == "" {
			tokenStr = c.Query("access_token")
		}

		if tokenStr == "" {
			utils.AbortJSON(c, http.StatusUnauthorized, "Authorization token is required")
			return
		}

		if msg := authenticate(c, authService, config, tokenStr); msg != "" {
			utils.AbortJSON(c, http.StatusUnauthorized, msg)
			return
		}

		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a token is present. Anonymous requests
// and requests with a bad token both continue without a user in the context.
func OptionalAuthMiddleware(authService TokenChecker, config *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := utils.ExtractToken(c); tokenStr != "" {
			_ = authenticate(c, authService, config, tokenStr)
		}
		c.Next()
	}
}

// authenticate validates tokenStr and stores its claims. It returns a client-facing
// message when the token is rejected.
func authenticate(c *gin.Context, authService TokenChecker, config *config.EnvConfig, tokenStr string) string {
	if err := authService.CheckAccessToken(c.Request.Context(), tokenStr); err != nil {
		return "Invalid or expired token"
	}

	parsedToken, err := utils.ParseToken(tokenStr, config)
	if err != nil || !parsedToken.Valid {
		return "Invalid token"
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return "Invalid token claims"
	}
	if err := utils.InjectClaimsToContext(c, claims); err != nil {
		return "Invalid claims"
	}

	c.Set(utils.ContextToken, tokenStr)
	c.Request = c.Request.WithContext(infra.WithAuthToken(c.Request.Context(), tokenStr))
	return ""
}
