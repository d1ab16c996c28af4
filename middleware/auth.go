package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userKey = "UserID"

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// IssueToken signs a bearer token for the mobile client. Web clients use the
// session cookie instead; both carry the same user id.
func IssueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(30 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// JWTDecoder extracts the user id from the Authorization header.
func JWTDecoder(c *gin.Context) (string, error) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", errors.New("missing bearer token")
	}

	token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// SetSessionUser stores the user id in the session after login.
func SetSessionUser(c *gin.Context, userID string) error {
	session := sessions.Default(c)
	session.Set(userKey, userID)
	return session.Save()
}

// ClearSessionUser removes the user id from the session on logout.
func ClearSessionUser(c *gin.Context) error {
	session := sessions.Default(c)
	if session.Get(userKey) == nil {
		return errors.New("no active session")
	}
	session.Delete(userKey)
	return session.Save()
}

// AuthRequired guards the /auth route group. The session cookie is checked
// first, the bearer token second (the mobile client sends no cookies).
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	if user := session.Get(userKey); user != nil {
		if id, ok := user.(string); ok {
			c.Set("user_id", id)
			c.Next()
			return
		}
	}

	if userID, err := JWTDecoder(c); err == nil {
		c.Set("user_id", userID)
		c.Next()
		return
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// CurrentUserID returns the authenticated user's id set by AuthRequired.
func CurrentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
