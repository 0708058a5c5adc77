package handler

import (
	"errors"
	"net/http"

	domainSession "clinic-device-backend/internal/domain/session"
	"clinic-device-backend/internal/middleware"
	"clinic-device-backend/internal/usecase/ingest"
	"clinic-device-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *ingest.Service
}

func NewUploadHandler(service *ingest.Service) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/patient-sessions/upload", h.Upload)
}

// Upload ingests an offline-accumulated batch of sessions and logs.
// The batch commits all-or-nothing; a single unresolvable log reference
// rejects the whole request before anything is persisted.
func (h *UploadHandler) Upload(c *gin.Context) {
	dev, ok := middleware.DeviceFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Device authentication required")
		return
	}

	var req ingest.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), dev, &req)
	if err != nil {
		var dup *ingest.DuplicateError
		switch {
		case errors.Is(err, domainSession.ErrUnknownSessionRef):
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		case errors.As(err, &dup):
			c.JSON(http.StatusConflict, gin.H{
				"status":           "duplicate",
				"message":          dup.Error(),
				"created_sessions": dup.Receipt.SessionsCreated,
				"created_logs":     dup.Receipt.LogsCreated,
			})
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Batch could not be persisted")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":           "success",
		"created_sessions": result.SessionsCreated,
		"created_logs":     result.LogsCreated,
	})
}
