package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"roomgpt-backend/internal/logger"
	"roomgpt-backend/internal/models"
)

type UserProvisioner interface {
	EnsureUser(ctx context.Context, email string, credits int) (*models.User, error)
}

// ProvisionUser creates the users row for a first-time session with the starting balance.
// Existing users are left untouched. Failures are logged and the request continues.
func ProvisionUser(store UserProvisioner, credits int) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := SessionEmail(c)
		if email == "" {
			c.Next()
			return
		}

		if _, err := store.EnsureUser(c.Request.Context(), email, credits); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"email": email,
				"path":  c.Request.URL.Path,
			}).WithError(err).Error("Failed to provision user")
		}
		c.Next()
	}
}
