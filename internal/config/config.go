package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Calibre
		Device
		Audit
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Calibre struct {
		LibraryPath string // Directory holding metadata.db
	}
	Device struct {
		IPAddr      string        // Fallback when nothing is stored in the database
		Port        string        // Kept as text, validated before use
		PortEnabled bool          // Use the configured port instead of 8080
		Timeout     time.Duration // Per-request timeout, no retries
	}
	Audit struct {
		Dir     string
		Enabled bool
	}
	Log struct {
		Level       string
		Development bool
	}
)

// loadEnvFiles loads ENV_FILE if set, otherwise .env.local and then .env.
// Variables already present in the environment are never overwritten.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Load reads .env files and builds the configuration from the environment.
func Load() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	return NewConfig(), nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("calibre_library_path", "")
	v.SetDefault("server_ip_addr", "")
	v.SetDefault("server_port", "")
	v.SetDefault("device_port_enabled", false)
	v.SetDefault("device_timeout", "10s")
	v.SetDefault("audit_dir", DefaultAuditDir)
	v.SetDefault("audit_enabled", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Calibre: Calibre{
			LibraryPath: v.GetString("CALIBRE_LIBRARY_PATH"),
		},
		Device: Device{
			IPAddr:      v.GetString("SERVER_IP_ADDR"),
			Port:        v.GetString("SERVER_PORT"),
			PortEnabled: v.GetBool("DEVICE_PORT_ENABLED"),
			Timeout:     v.GetDuration("DEVICE_TIMEOUT"),
		},
		Audit: Audit{
			Dir:     v.GetString("AUDIT_DIR"),
			Enabled: v.GetBool("AUDIT_ENABLED"),
		},
		Log: Log{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
	}
}

// AuditDir returns the audit directory, or "" when auditing is switched off.
func (c *Config) AuditDir() string {
	if !c.Audit.Enabled {
		return ""
	}
	return c.Audit.Dir
}
