package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Firmware  FirmwareConfig
	Sync      SyncConfig
	JWT       JWTConfig
	MQTT      MQTTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// FirmwareConfig controls firmware storage and distribution.
// VersionScheme selects how candidate versions are ordered when deciding
// update availability: "ordinal" (byte-wise string comparison) or
// "numeric" (dot-separated integer segments).
type FirmwareConfig struct {
	StorageDir        string
	VersionScheme     string
	DownloadSecret    string
	DownloadURLExpiry int // seconds
	PublicBaseURL     string
}

// SyncConfig holds the static configuration block returned to devices.
type SyncConfig struct {
	IntervalSeconds int
	MaxRetryCount   int
	LogLevel        string
}

type JWTConfig struct {
	Secret string
}

type MQTTConfig struct {
	Enabled     bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

type RateLimitConfig struct {
	GeneralRPS   float64
	GeneralBurst int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			if _, statErr := os.Stat(".env"); !os.IsNotExist(statErr) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			DBName:       viper.GetString("DB_NAME"),
			SSLMode:      viper.GetString("DB_SSLMODE"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Firmware: FirmwareConfig{
			StorageDir:        viper.GetString("FIRMWARE_STORAGE_DIR"),
			VersionScheme:     viper.GetString("FIRMWARE_VERSION_SCHEME"),
			DownloadSecret:    viper.GetString("FIRMWARE_DOWNLOAD_SECRET"),
			DownloadURLExpiry: viper.GetInt("FIRMWARE_DOWNLOAD_URL_EXPIRY"),
			PublicBaseURL:     viper.GetString("PUBLIC_BASE_URL"),
		},
		Sync: SyncConfig{
			IntervalSeconds: viper.GetInt("DEVICE_SYNC_INTERVAL"),
			MaxRetryCount:   viper.GetInt("DEVICE_MAX_RETRY_COUNT"),
			LogLevel:        viper.GetString("DEVICE_LOG_LEVEL"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		MQTT: MQTTConfig{
			Enabled:     viper.GetBool("MQTT_ENABLED"),
			Broker:      viper.GetString("MQTT_BROKER"),
			ClientID:    viper.GetString("MQTT_CLIENT_ID"),
			Username:    viper.GetString("MQTT_USERNAME"),
			Password:    viper.GetString("MQTT_PASSWORD"),
			TopicPrefix: viper.GetString("MQTT_TOPIC_PREFIX"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("FIRMWARE_STORAGE_DIR", "firmware")
	viper.SetDefault("FIRMWARE_VERSION_SCHEME", "ordinal")
	viper.SetDefault("FIRMWARE_DOWNLOAD_URL_EXPIRY", 300)
	viper.SetDefault("DEVICE_SYNC_INTERVAL", 300)
	viper.SetDefault("DEVICE_MAX_RETRY_COUNT", 3)
	viper.SetDefault("DEVICE_LOG_LEVEL", "info")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("MQTT_TOPIC_PREFIX", "clinic/devices")
	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 50)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 100)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
