// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file attaches the caller's identity to the request context and gates
// routes on the caller's role. Authentication itself is terminated upstream
// (gateway or reverse proxy); this service trusts the forwarded identity
// headers:
//
//   - X-User-ID:   stable identifier of the authenticated user (required)
//   - X-User-Role: one of admin/manager/worker/viewer; unknown or absent
//     values degrade to viewer, the least-privileged role
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	ctxKeyUserID = "userID"
	ctxKeyRole   = "userRole"
)

// Identity resolves the caller's user id and role from the forwarded headers
// and stores them in the Gin context under "userID" and "userRole". Requests
// without a user id are rejected with 401 before any handler runs.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(headerUserID))
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "missing user identity",
			})
			return
		}
		c.Set(ctxKeyUserID, uid)
		c.Set(ctxKeyRole, domain.ParseRole(c.GetHeader(headerUserRole)))
		c.Next()
	}
}

// RoleFrom returns the caller's role as resolved by Identity. Absent a
// resolved role it returns viewer.
func RoleFrom(c *gin.Context) domain.Role {
	if v, ok := c.Get(ctxKeyRole); ok {
		if r, ok := v.(domain.Role); ok {
			return r
		}
	}
	return domain.RoleViewer
}

// RequireRole rejects the request with 403 unless the caller's role is one
// of allowed. Mount after Identity.
func RequireRole(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !RoleFrom(c).CanAny(allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "forbidden",
				"message":    "insufficient role",
			})
			return
		}
		c.Next()
	}
}
