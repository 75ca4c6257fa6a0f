package webserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func issueJWT(userID uint64, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"uid": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseUID(tokenStr string, secret []byte) (uint64, bool) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) { return secret, nil })
	if err != nil || !tok.Valid {
		return 0, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, false
	}
	return uint64(uid), true
}

// JWTMiddleware rejects requests without a valid bearer token.
func JWTMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		uid, ok := parseUID(h[7:], secret)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set("uid", uid)
		c.Next()
	}
}

// OptionalJWT sets the viewer id when a valid token is present but lets
// anonymous requests through; listings personalize only when uid is set.
func OptionalJWT(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			if uid, ok := parseUID(h[7:], secret); ok {
				c.Set("uid", uid)
			}
		}
		c.Next()
	}
}

// viewerID returns the authenticated user's id, or 0 for anonymous requests.
func viewerID(c *gin.Context) uint64 {
	return c.GetUint64("uid")
}
