package middleware

import (
	"net/http"
	"strings"

	"clinic-device-backend/internal/auth"
	"clinic-device-backend/internal/config"
	"clinic-device-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminAuthMiddleware validates bearer tokens issued by the external
// identity service and admits admin and manufacturer roles. Only token
// validation lives here; issuance and the full role model do not.
func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWT.Secret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		if claims.Role != "admin" && claims.Role != "manufacturer" {
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		actor := auth.HumanActor{
			UserID: claims.UserID,
			Role:   claims.Role,
		}
		if claims.ClinicID != "" {
			if clinicID, err := uuid.Parse(claims.ClinicID); err == nil {
				actor.ClinicID = &clinicID
			}
		}
		c.Set(actorKey, actor)

		c.Next()
	}
}
