package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SubjectKey is the echo context key holding the authenticated token subject.
const SubjectKey = "subject"

var ErrMissingSubject = errors.New("token subject is required")

// GenerateToken issues an HS256 token for subject, valid for ttl.
func GenerateToken(secret, subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrMissingSubject
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// JWTMiddleware requires a bearer token signed with secret and stores its
// subject under SubjectKey.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is required"})
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format"})
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			}

			if claims.Subject == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			}

			c.Set(SubjectKey, claims.Subject)
			return next(c)
		}
	}
}

// Subject returns the authenticated subject, or "" when auth is disabled.
func Subject(c echo.Context) string {
	subject, _ := c.Get(SubjectKey).(string)
	return subject
}
