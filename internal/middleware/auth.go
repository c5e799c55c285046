package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/guitarhaus/guitarhaus-api/internal/authz"
	"github.com/guitarhaus/guitarhaus-api/internal/dto"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("unauthorized"))
			return
		}

		token, err := jwt.Parse(header[7:], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("invalid claims"))
			return
		}

		sub, _ := claims["sub"].(string)
		customerID, err := uuid.Parse(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("invalid customer id"))
			return
		}

		role, _ := claims["role"].(string)
		c.Set("customerID", customerID)
		c.Set("customerRole", role)
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSubject(c).Role != authz.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail("admin only"))
			return
		}
		c.Next()
	}
}

// GetSubject returns the authenticated caller set by AuthMiddleware.
func GetSubject(c *gin.Context) authz.Subject {
	id, _ := c.Get("customerID")
	customerID, _ := id.(uuid.UUID)
	role, _ := c.Get("customerRole")
	r, _ := role.(string)
	return authz.Subject{CustomerID: customerID, Role: r}
}
