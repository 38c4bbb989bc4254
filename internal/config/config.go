// Package config loads converter and server settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

// Config holds all configuration for the converter, CLI and HTTP collaborators.
type Config struct {
	Conversion    ConversionConfig    `yaml:"conversion"`
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ConversionConfig controls the PDF to PPTX engine.
type ConversionConfig struct {
	Mode          string  `yaml:"mode"` // image or editable
	Magnification float64 `yaml:"magnification"`
	JPEGQuality   int     `yaml:"jpeg_quality"`
	LineHeight    float64 `yaml:"line_height"`
	WidthPolicy   string  `yaml:"width_policy"`
	FontFace      string  `yaml:"font_face"`
	TextColor     string  `yaml:"text_color"`
	SlideLayout   string  `yaml:"slide_layout"` // 16x9 or page
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// StorageConfig holds file locations for the collaborators.
type StorageConfig struct {
	UploadDir string `yaml:"upload_dir"`
	PostsFile string `yaml:"posts_file"`
}

// AuthConfig holds the admin secret. An empty password makes login fail closed.
type AuthConfig struct {
	AdminPassword string `yaml:"admin_password"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}

		cfg.Storage.UploadDir = ResolveRelativePath(path, cfg.Storage.UploadDir)
		cfg.Storage.PostsFile = ResolveRelativePath(path, cfg.Storage.PostsFile)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns the settings the conversion tool ships with.
func DefaultConfig() *Config {
	return &Config{
		Conversion: ConversionConfig{
			Mode:          string(domain.ModeImage),
			Magnification: 2.0,
			JPEGQuality:   80,
			LineHeight:    1.5,
			WidthPolicy:   string(domain.WidthFillSlide),
			FontFace:      "Arial",
			TextColor:     "000000",
			SlideLayout:   "16x9",
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			MaxUploadBytes:   50 << 20,
			AllowedOrigins:   []string{"*"},
		},
		Storage: StorageConfig{
			UploadDir: "public/uploads",
			PostsFile: "data/posts.json",
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := domain.ParseMode(c.Conversion.Mode); err != nil {
		return err
	}
	if _, err := domain.ParseWidthPolicy(c.Conversion.WidthPolicy); err != nil {
		return err
	}
	if c.Conversion.Magnification <= 0 || c.Conversion.Magnification > 8 {
		return domain.ConfigError(fmt.Sprintf("magnification must be in (0, 8], got %g", c.Conversion.Magnification), nil)
	}
	if c.Conversion.JPEGQuality < 1 || c.Conversion.JPEGQuality > 100 {
		return domain.ConfigError(fmt.Sprintf("jpeg_quality must be between 1 and 100, got %d", c.Conversion.JPEGQuality), nil)
	}
	if c.Conversion.LineHeight <= 0 {
		return domain.ConfigError("line_height must be positive", nil)
	}
	if !hexColor.MatchString(c.Conversion.TextColor) {
		return domain.ConfigError(fmt.Sprintf("text_color must be 6 hex digits, got %q", c.Conversion.TextColor), nil)
	}
	if c.Conversion.SlideLayout != "16x9" && c.Conversion.SlideLayout != "page" {
		return domain.ConfigError(fmt.Sprintf("invalid slide_layout: %s", c.Conversion.SlideLayout), nil)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return domain.ConfigError(fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PDF2PPTX_MODE"); v != "" {
		cfg.Conversion.Mode = strings.ToLower(v)
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Storage.UploadDir = v
	}

	if v := os.Getenv("POSTS_FILE"); v != "" {
		cfg.Storage.PostsFile = v
	}

	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Auth.AdminPassword = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if targetPath == "" || filepath.IsAbs(targetPath) {
		return targetPath
	}
	return filepath.Join(filepath.Dir(configPath), targetPath)
}
