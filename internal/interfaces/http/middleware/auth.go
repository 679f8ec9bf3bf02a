package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dawapos/backend/internal/domain/identity"
	"github.com/dawapos/backend/internal/infrastructure/auth"
	"github.com/dawapos/backend/internal/infrastructure/logger"
	"github.com/dawapos/backend/internal/interfaces/http/dto"
)

// Context keys set by the auth middleware
const (
	ContextKeyClaims   = "auth_claims"
	ContextKeyTenantID = "tenant_id"
	ContextKeyUserID   = "user_id"
	ContextKeyRole     = "role"
)

// JWTAuth validates the bearer token, rejects revoked tokens and puts
// the tenant, user and role into the request context.
func JWTAuth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "authorization header must be a bearer token")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			code := dto.ErrCodeInvalidToken
			message := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "token has expired"
			}
			abort(c, http.StatusUnauthorized, code, message)
			return
		}

		revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			abort(c, http.StatusInternalServerError, dto.ErrCodeInternal, "failed to verify token")
			return
		}
		if revoked {
			abort(c, http.StatusUnauthorized, dto.ErrCodeTokenRevoked, "token has been revoked")
			return
		}

		tenantID, err := claims.GetTenantUUID()
		if err != nil {
			abort(c, http.StatusUnauthorized, dto.ErrCodeInvalidToken, "invalid tenant in token")
			return
		}
		userID, err := claims.GetUserUUID()
		if err != nil {
			abort(c, http.StatusUnauthorized, dto.ErrCodeInvalidToken, "invalid user in token")
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyTenantID, tenantID)
		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyRole, identity.Role(claims.Role))

		ctx, reqLogger := logger.WithTenantID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.TenantID)
		ctx, reqLogger = logger.WithUserID(ctx, reqLogger, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, reqLogger))

		c.Next()
	}
}

// RequireRole rejects requests whose authenticated role is not in the
// allowed set.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		role := GetRole(c)
		if _, ok := allowed[role]; !ok {
			abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "insufficient role for this operation")
			return
		}
		c.Next()
	}
}

// GetTenantID returns the authenticated tenant ID
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextKeyTenantID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetUserID returns the authenticated user ID
func GetUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetRole returns the authenticated role
func GetRole(c *gin.Context) identity.Role {
	if v, ok := c.Get(ContextKeyRole); ok {
		if role, ok := v.(identity.Role); ok {
			return role
		}
	}
	return ""
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.Err(code, message))
}
