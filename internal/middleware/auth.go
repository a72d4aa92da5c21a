package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/terraflow/scm-backend/internal/model"
)

// AuthMiddleware validates bearer tokens issued by the external auth
// subsystem. Tokens are HS256 JWTs carrying the caller's user id in `sub`
// and the role in `role`.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "unauthorized"})
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "invalid token"})
		}
		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || userID == 0 {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "invalid token"})
		}
		c.Set("user_id", userID)
		c.Set("role", model.Role(claims.Role))
		return next(c)
	}
}

// RequireRole gates a route to a single role. Auth must run first.
func (m *AuthMiddleware) RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r, _ := c.Get("role").(model.Role); r != role {
				return c.JSON(http.StatusForbidden, map[string]interface{}{"success": false, "message": "forbidden"})
			}
			return next(c)
		}
	}
}
