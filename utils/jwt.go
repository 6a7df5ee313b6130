package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tnqbao/gau-wiki-gateway/config"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "access_token"
)

func ExtractToken(c *gin.Context) string {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Fields(authHeader)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}

func ParseToken(tokenString string, config *config.EnvConfig) (*jwt.Token, error) {
	secret := []byte(config.JWT.SecretKey)
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// InjectClaimsToContext stores the numeric user id and role carried by claims.
// The auth service issues user_id either as a JSON number or as a decimal string.
func InjectClaimsToContext(c *gin.Context, claims jwt.MapClaims) error {
	userID, err := claimUserID(claims["user_id"])
	if err != nil {
		return err
	}
	c.Set(ContextUserID, userID)

	if role, ok := claims["role"].(string); ok {
		c.Set(ContextRole, role)
	} else {
		c.Set(ContextRole, "")
	}
	return nil
}

func claimUserID(v any) (int64, error) {
	switch id := v.(type) {
	case float64:
		if id <= 0 || id != float64(int64(id)) {
			return 0, fmt.Errorf("invalid user_id %v", id)
		}
		return int64(id), nil
	case string:
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil || parsed <= 0 {
			return 0, fmt.Errorf("invalid user_id %q", id)
		}
		return parsed, nil
	default:
		return 0, errors.New("user_id is missing from claims")
	}
}

// GetUserID returns the authenticated user, or 0 for anonymous requests.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func GetUserRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}
