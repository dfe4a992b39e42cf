package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"roomgpt-backend/internal/config"
	"roomgpt-backend/internal/logger"
	"roomgpt-backend/internal/models"
)

const (
	UserIDKey = "user_id"
	EmailKey  = "email"
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errHeaderFormat  = errors.New("invalid authorization header format")
	errEmptyToken    = errors.New("empty token")
	errTokenFormat   = errors.New("JWT token must have 3 parts separated by dots")
	errMissingEmail  = errors.New("missing email in token")
)

// Session is the part of a verified access token this service reads.
type Session struct {
	UserID string
	Email  string
}

// AuthMiddleware rejects requests without a valid Supabase access token.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := ParseSession(c.GetHeader("Authorization"), cfg.SupabaseJWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid token", Message: err.Error()})
			c.Abort()
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// SessionMiddleware resolves the session when one is present and never aborts.
// Handlers decide how to answer anonymous callers.
func SessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := ParseSession(c.GetHeader("Authorization"), cfg.SupabaseJWTSecret)
		if err != nil {
			if !errors.Is(err, errMissingHeader) {
				logger.Log.WithFields(logrus.Fields{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				}).Warn("Ignoring invalid session token")
			}
			c.Next()
			return
		}

		setSession(c, session)
		c.Next()
	}
}

func setSession(c *gin.Context, s *Session) {
	c.Set(UserIDKey, s.UserID)
	c.Set(EmailKey, s.Email)
}

// SessionEmail returns the email of the resolved session, or "" for anonymous requests.
func SessionEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}

// ParseSession verifies an "Authorization: Bearer <jwt>" header value signed with secret (HS256).
func ParseSession(authHeader, secret string) (*Session, error) {
	if authHeader == "" {
		return nil, errMissingHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errHeaderFormat
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, errEmptyToken
	}

	// Try URL decoding in case the token was URL-encoded
	if decoded, err := url.QueryUnescape(tokenString); err == nil && decoded != tokenString {
		tokenString = decoded
	}

	if len(strings.Split(tokenString, ".")) != 3 {
		return nil, errTokenFormat
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		if secret == "" {
			return nil, jwt.ErrSignatureInvalid
		}
		// Supabase JWT secret is used directly as the signing key
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.New("token has expired")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errors.New("token signature is invalid - check JWT secret")
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, errors.New("token is malformed - ensure you're using a valid Supabase JWT token")
		default:
			return nil, err
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, errMissingEmail
	}
	sub, _ := claims["sub"].(string)

	return &Session{UserID: sub, Email: email}, nil
}
