package handler

import (
	"net/http"

	"clinic-device-backend/internal/middleware"
	"clinic-device-backend/internal/usecase/sync"
	"clinic-device-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	service *sync.Service
}

func NewSyncHandler(service *sync.Service) *SyncHandler {
	return &SyncHandler{service: service}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/devices/sync", h.Sync)
}

// Sync handles one device sync cycle. The response carries the sync
// payload directly (no envelope): devices parse it in firmware.
func (h *SyncHandler) Sync(c *gin.Context) {
	dev, ok := middleware.DeviceFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Device authentication required")
		return
	}

	var req sync.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Sync(c.Request.Context(), dev, &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Sync failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}
