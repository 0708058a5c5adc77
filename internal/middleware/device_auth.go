package middleware

import (
	"net/http"

	"clinic-device-backend/internal/auth"
	domainDevice "clinic-device-backend/internal/domain/device"
	"clinic-device-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	APIKeyHeader = "X-API-Key"

	actorKey  = "actor"
	deviceKey = "device"
)

// DeviceAuthMiddleware resolves the per-request device credential.
// Locked devices still authenticate, a locked device must be able to
// sync to learn it is locked; maintenance devices are rejected.
// Authentication is stateless; no session is created.
func DeviceAuthMiddleware(devices domainDevice.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(APIKeyHeader)
		if apiKey == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "API key required")
			c.Abort()
			return
		}

		dev, err := devices.GetByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid API key")
			c.Abort()
			return
		}
		if !dev.Authenticable() {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid API key")
			c.Abort()
			return
		}

		c.Set(actorKey, auth.DeviceActor{DeviceID: dev.ID})
		c.Set(deviceKey, dev)

		c.Next()
	}
}

// ActorFromContext returns the actor resolved at the auth boundary.
func ActorFromContext(c *gin.Context) (auth.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return nil, false
	}
	actor, ok := v.(auth.Actor)
	return actor, ok
}

// DeviceFromContext returns the authenticated device for device-
// credentialed routes.
func DeviceFromContext(c *gin.Context) (*domainDevice.Device, bool) {
	v, exists := c.Get(deviceKey)
	if !exists {
		return nil, false
	}
	dev, ok := v.(*domainDevice.Device)
	return dev, ok
}
