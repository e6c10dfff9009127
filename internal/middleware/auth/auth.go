// Package auth identifies visitors of the shorten service. A signed
// cookie is issued on first contact; the visitor id inside it ties log
// lines from the same browser together.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Claims struct {
	jwt.RegisteredClaims
	VisitorID string
}

const (
	tokenExp   = time.Hour * 3
	maxAge     = 3600 * 24 * 30
	cookieName = "shorten-visitor"

	// VisitorIDKey is the gin context key the visitor id is stored under.
	VisitorIDKey = "visitorID"
)

var ErrTokenNotValid = errors.New("token is not valid")
var ErrNoVisitorInToken = errors.New("no visitor id in token")

// BuildToken signs a fresh token carrying a new visitor id.
func BuildToken(secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExp)),
		},
		VisitorID: uuid.New().String(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return tokenString, nil
}

// VisitorID extracts the visitor id from a signed token string.
func VisitorID(tokenString, secret string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
	if err != nil || !token.Valid {
		return "", ErrTokenNotValid
	}

	if claims.VisitorID == "" {
		return "", ErrNoVisitorInToken
	}

	return claims.VisitorID, nil
}

// NewVisitorMiddleware returns middleware that reads the visitor
// cookie, issuing a fresh one when it is absent or no longer valid,
// and stores the visitor id in the request context.
func NewVisitorMiddleware(secret string, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			logger.Errorf("error reading cookie %q: %v", cookieName, err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		visitorID := ""
		if cookie != "" {
			visitorID, err = VisitorID(cookie, secret)
			if err != nil {
				logger.Debugf("discarding visitor cookie: %v", err)
				visitorID = ""
			}
		}

		if visitorID == "" {
			token, err := BuildToken(secret)
			if err != nil {
				logger.Errorf("error building visitor token: %v", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			visitorID, err = VisitorID(token, secret)
			if err != nil {
				logger.Errorf("error reading back fresh token: %v", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.SetCookie(cookieName, token, maxAge, "", "", false, true)
		}

		c.Set(VisitorIDKey, visitorID)
		c.Next()
	}
}
