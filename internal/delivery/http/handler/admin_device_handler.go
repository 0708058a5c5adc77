package handler

import (
	"errors"
	"net/http"

	domainDevice "clinic-device-backend/internal/domain/device"
	domainFirmware "clinic-device-backend/internal/domain/firmware"
	"clinic-device-backend/internal/usecase/device"
	"clinic-device-backend/internal/usecase/devicelock"
	"clinic-device-backend/internal/usecase/firmware"
	"clinic-device-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminDeviceHandler is the administrative surface over devices:
// provisioning, lock/unlock transitions, and firmware publication.
type AdminDeviceHandler struct {
	devices  *device.Service
	lock     *devicelock.Service
	firmware *firmware.Service
}

func NewAdminDeviceHandler(devices *device.Service, lock *devicelock.Service, fw *firmware.Service) *AdminDeviceHandler {
	return &AdminDeviceHandler{
		devices:  devices,
		lock:     lock,
		firmware: fw,
	}
}

func (h *AdminDeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	devices := router.Group("/devices")
	{
		devices.POST("", h.CreateDevice)
		devices.PATCH("/:id/lock", h.LockDevice)
		devices.PATCH("/:id/unlock", h.UnlockDevice)
		devices.POST("/:id/firmware", h.UploadFirmware)
	}
}

func (h *AdminDeviceHandler) CreateDevice(c *gin.Context) {
	var req device.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.devices.CreateDevice(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domainDevice.ErrDeviceAlreadyExists) {
			utils.ErrorResponse(c, http.StatusConflict, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Device created successfully", resp)
}

type lockRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminDeviceHandler) LockDevice(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	// Body is optional; a bare lock uses the default reason.
	var req lockRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.lock.Lock(c.Request.Context(), deviceID, req.Reason); err != nil {
		if errors.Is(err, domainDevice.ErrDeviceNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to lock device")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device locked", gin.H{"device_id": deviceID})
}

func (h *AdminDeviceHandler) UnlockDevice(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	if err := h.lock.Unlock(c.Request.Context(), deviceID); err != nil {
		if errors.Is(err, domainDevice.ErrDeviceNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to unlock device")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device unlocked", gin.H{"device_id": deviceID})
}

// UploadFirmware accepts a multipart form: file, version, release_notes.
func (h *AdminDeviceHandler) UploadFirmware(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	version := c.PostForm("version")
	if version == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Firmware version is required")
		return
	}
	releaseNotes := c.PostForm("release_notes")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Firmware file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read firmware file")
		return
	}
	defer file.Close()

	fw, err := h.firmware.Upload(c.Request.Context(), deviceID, version, releaseNotes, file)
	if err != nil {
		if errors.Is(err, domainFirmware.ErrVersionExists) {
			utils.ErrorResponse(c, http.StatusConflict, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to store firmware")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Firmware uploaded", gin.H{
		"id":       fw.ID,
		"version":  fw.Version,
		"checksum": fw.Checksum,
	})
}
