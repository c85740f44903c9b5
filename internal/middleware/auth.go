package middleware

import (
	"net/http"
	"strings"

	"github.com/qureshi08/NPF-1/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ClaimsKey = "claims"

// Permission is an explicit capability checked once at the route boundary.
// Handlers and services never inspect roles — they receive an already
// authorized request plus the acting user's id.
type Permission string

const (
	PermManageCatalog    Permission = "catalog:write"    // products, categories, suppliers
	PermEditOrders       Permission = "orders:write"     // create/edit orders, items, payments
	PermDeleteRecords    Permission = "records:delete"   // destructive deletes across entities
	PermManageFinance    Permission = "finance:write"    // manual ledger entries
	PermManageProduction Permission = "production:write" // workshop jobs
	PermViewReports      Permission = "reports:read"
	PermManageUsers      Permission = "users:admin" // user accounts, audit log
)

// rolePermissions maps each account role to its capability set.
var rolePermissions = map[string][]Permission{
	"admin": {
		PermManageCatalog, PermEditOrders, PermDeleteRecords,
		PermManageFinance, PermManageProduction, PermViewReports,
		PermManageUsers,
	},
	"staff": {
		PermManageCatalog, PermEditOrders, PermManageFinance,
		PermManageProduction, PermViewReports,
	},
	"workshop": {
		PermManageProduction, PermViewReports,
	},
}

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the claims' role grants perm.
func (c *JWTClaims) HasPermission(perm Permission) bool {
	for _, p := range rolePermissions[c.Role] {
		if p == perm {
			return true
		}
	}
	return false
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequirePermission rejects requests whose role does not grant perm.
func RequirePermission(perm Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(ClaimsKey)
		claims, ok := v.(*JWTClaims)
		if !ok || !claims.HasPermission(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	v, _ := c.Get(ClaimsKey)
	claims, _ := v.(*JWTClaims)
	return claims
}
