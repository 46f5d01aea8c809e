package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rsharma/restlab/internal/models"
)

const identityKey = "restlab.identity"

// Claims carries the identity fields the core needs from a bearer token
type Claims struct {
	WorkspaceID string `json:"workspace,omitempty"`
	jwt.RegisteredClaims
}

// identityMiddleware resolves the caller's scope from a Bearer JWT. When
// no valid token is present and identity is not required, the caller runs
// as the anonymous local user so single-user setups need no tokens.
func identityMiddleware(secret string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, err := scopeFromToken(c.GetHeader("Authorization"), secret)
		if err != nil {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
				return
			}
			scope = models.Scope{UserID: "local"}
			if ws := c.GetHeader("X-Workspace-Id"); ws != "" {
				scope.WorkspaceID = ws
			}
		}

		c.Set(identityKey, scope)
		c.Next()
	}
}

// scopeFromToken parses and verifies a Bearer token into a scope
func scopeFromToken(header, secret string) (models.Scope, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return models.Scope{}, fmt.Errorf("no bearer token")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.Scope{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return models.Scope{}, fmt.Errorf("invalid token")
	}

	return models.Scope{UserID: claims.Subject, WorkspaceID: claims.WorkspaceID}, nil
}

// callerScope returns the scope stored by the identity middleware
func callerScope(c *gin.Context) models.Scope {
	if v, ok := c.Get(identityKey); ok {
		if scope, ok := v.(models.Scope); ok {
			return scope
		}
	}
	return models.Scope{UserID: "local"}
}
