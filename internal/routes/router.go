package routes

import (
	"net/http"
	"time"

	"clinic-device-backend/internal/config"
	"clinic-device-backend/internal/delivery/http/handler"
	"clinic-device-backend/internal/events"
	"clinic-device-backend/internal/infrastructure/database/postgres"
	"clinic-device-backend/internal/logger"
	"clinic-device-backend/internal/middleware"
	"clinic-device-backend/internal/storage"
	"clinic-device-backend/internal/usecase/device"
	"clinic-device-backend/internal/usecase/devicelock"
	"clinic-device-backend/internal/usecase/firmware"
	"clinic-device-backend/internal/usecase/ingest"
	"clinic-device-backend/internal/usecase/sync"
	"clinic-device-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

func SetupRoutes(cfg *config.Config, db *postgres.DB, publisher events.Publisher) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	deviceRepo := postgres.NewDeviceRepository(db)
	licenseRepo := postgres.NewLicenseRepository(db)
	firmwareRepo := postgres.NewFirmwareRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	patientRepo := postgres.NewPatientRepository(db)

	firmwareStore := storage.NewFirmwareStore(afero.NewOsFs(), cfg.Firmware.StorageDir)
	signer := utils.NewURLSigner(cfg.Firmware.DownloadSecret)

	lockService := devicelock.NewService(deviceRepo, licenseRepo, publisher)
	firmwareService := firmware.NewService(
		firmwareRepo,
		firmwareStore,
		signer,
		publisher,
		firmware.VersionScheme(cfg.Firmware.VersionScheme),
		cfg.Firmware.PublicBaseURL,
		time.Duration(cfg.Firmware.DownloadURLExpiry)*time.Second,
	)
	ingestService := ingest.NewService(sessionRepo, patientRepo, patientRepo)
	syncService := sync.NewService(deviceRepo, lockService, firmwareService, ingestService, publisher, cfg.Sync)
	deviceService := device.NewService(deviceRepo, licenseRepo)

	syncHandler := handler.NewSyncHandler(syncService)
	uploadHandler := handler.NewUploadHandler(ingestService)
	firmwareHandler := handler.NewFirmwareHandler(firmwareService)
	adminHandler := handler.NewAdminDeviceHandler(deviceService, lockService, firmwareService)

	v1 := router.Group("/api/v1")
	{
		deviceAPI := v1.Group("")
		deviceAPI.Use(middleware.DeviceAuthMiddleware(deviceRepo))
		{
			syncHandler.RegisterRoutes(deviceAPI)
			uploadHandler.RegisterRoutes(deviceAPI)
			firmwareHandler.RegisterRoutes(deviceAPI)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(cfg))
		{
			adminHandler.RegisterRoutes(admin)
		}
	}

	logger.Info("All routes initialized")
	return router
}
