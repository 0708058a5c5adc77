package handler

import (
	"errors"
	"fmt"
	"net/http"

	domainFirmware "clinic-device-backend/internal/domain/firmware"
	"clinic-device-backend/internal/middleware"
	"clinic-device-backend/internal/storage"
	"clinic-device-backend/internal/usecase/firmware"
	"clinic-device-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FirmwareHandler struct {
	service *firmware.Service
}

func NewFirmwareHandler(service *firmware.Service) *FirmwareHandler {
	return &FirmwareHandler{service: service}
}

func (h *FirmwareHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/devices/firmware/download/:firmware_id", h.Download)
}

// Download streams a firmware binary to its owning device. The stored
// checksum travels in the X-Checksum header so the device can verify
// the bytes it received.
func (h *FirmwareHandler) Download(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Device authentication required")
		return
	}

	firmwareID, err := uuid.Parse(c.Param("firmware_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid firmware ID")
		return
	}

	params := firmware.SignedParams{
		Exp:   c.Query("exp"),
		Nonce: c.Query("nonce"),
		Sig:   c.Query("sig"),
	}

	download, err := h.service.OpenDownload(c.Request.Context(), actor, firmwareID, params)
	if err != nil {
		switch {
		case errors.Is(err, domainFirmware.ErrFirmwareNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, "Firmware not found")
		case errors.Is(err, storage.ErrFileMissing):
			utils.ErrorResponse(c, http.StatusNotFound, "Firmware file not found")
		case errors.Is(err, firmware.ErrAccessDenied):
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied to firmware")
		case errors.Is(err, firmware.ErrChecksumMismatch):
			utils.ErrorResponse(c, http.StatusBadRequest, "Firmware checksum is invalid")
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to open firmware")
		}
		return
	}
	defer download.Reader.Close()

	c.Header("X-Checksum", download.Checksum)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, download.Filename))
	c.DataFromReader(http.StatusOK, download.Size, "application/octet-stream", download.Reader, nil)
}
