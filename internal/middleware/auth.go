package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/badgeworks/affiliates/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie carries the signed session token inside the platform iframe,
// where Authorization headers aren't available to plain page loads.
const SessionCookie = "affiliates_session"

type AuthMiddleware struct {
	secret []byte
	maxAge time.Duration
}

func NewAuthMiddleware(secret string, maxAge time.Duration) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret), maxAge: maxAge}
}

// IssueSession mints a session token for a platform user id.
func (m *AuthMiddleware) IssueSession(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// SetSessionCookie attaches the session to the response.
func (m *AuthMiddleware) SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookie, token, int(m.maxAge/time.Second), "/", "", true, true)
}

// RequireAuth resolves the session from the cookie, falling back to a bearer
// header, and stores the user id on the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := c.Cookie(SessionCookie)

		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || claims.Subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session claims"})
			c.Abort()
			return
		}

		c.Set(response.UserIDKey, claims.Subject)
		c.Next()
	}
}
