package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/taskplan/internal/app"
	"github.com/YoshitsuguKoike/taskplan/internal/app/config"
)

// SettingFile is the name of the settings file inside the home directory
const SettingFile = "config.yaml"

// DefaultHome is used when TASKPLAN_HOME is not set
const DefaultHome = ".taskplan"

// Environment overrides
const (
	EnvHome     = "TASKPLAN_HOME"
	EnvAddr     = "TASKPLAN_ADDR"
	EnvStorage  = "TASKPLAN_STORAGE"
	EnvLogLevel = "TASKPLAN_LOG_LEVEL"
)

// RawSettings represents the structure of config.yaml.
// Pointer fields distinguish "not set" from zero values.
type RawSettings struct {
	Server  RawServer  `yaml:"server"`
	History RawHistory `yaml:"history"`
	Storage RawStorage `yaml:"storage"`
	Backup  RawBackup  `yaml:"backup"`
	Log     RawLog     `yaml:"log"`
}

// RawServer holds the HTTP listener settings
type RawServer struct {
	Host *string `yaml:"host"`
	Port *int    `yaml:"port"`
}

// RawHistory holds the view history settings
type RawHistory struct {
	Capacity *int `yaml:"capacity"`
}

// RawStorage holds the snapshot backend settings
type RawStorage struct {
	Type       *string `yaml:"type"`
	Path       *string `yaml:"path"`
	SQLitePath *string `yaml:"sqlite_path"`
	S3         RawS3   `yaml:"s3"`
}

// RawS3 holds the S3 object location
type RawS3 struct {
	Bucket *string `yaml:"bucket"`
	Key    *string `yaml:"key"`
	Region *string `yaml:"region"`
}

// RawBackup holds the periodic backup settings
type RawBackup struct {
	Schedule *string `yaml:"schedule"`
	Path     *string `yaml:"path"`
}

// RawLog holds the logging settings
type RawLog struct {
	Level *string `yaml:"level"`
}

// ResolveHome returns TASKPLAN_HOME or the default home directory
func ResolveHome() string {
	if v := strings.TrimSpace(os.Getenv(EnvHome)); v != "" {
		return v
	}
	return DefaultHome
}

// LoadSettings loads configuration from <baseDir>/config.yaml on the OS filesystem
func LoadSettings(baseDir string) (*config.AppConfig, error) {
	return LoadSettingsFs(afero.NewOsFs(), baseDir)
}

// LoadSettingsFs loads configuration from <baseDir>/config.yaml.
// Priority: environment > config.yaml > defaults. A missing file is not an error.
func LoadSettingsFs(fs afero.Fs, baseDir string) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	path := filepath.Join(baseDir, SettingFile)
	data, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if err := decode(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		configSource = "yaml"
		settingPath = path
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := applyEnv(settings); err != nil {
		return nil, err
	}

	applyDefaults(settings, baseDir)

	if err := validate(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return buildAppConfig(baseDir, settings, configSource, settingPath), nil
}

func decode(data []byte, settings *RawSettings) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(settings); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overrides file values with environment variables
func applyEnv(settings *RawSettings) error {
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		host, portStr, err := net.SplitHostPort(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAddr, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q", EnvAddr, portStr)
		}
		settings.Server.Host = &host
		settings.Server.Port = &port
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorage)); v != "" {
		settings.Storage.Type = &v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		settings.Log.Level = &v
	}
	return nil
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings, baseDir string) {
	setString := func(p **string, v string) {
		if *p == nil {
			*p = &v
		}
	}
	setInt := func(p **int, v int) {
		if *p == nil {
			*p = &v
		}
	}

	// Server
	setString(&settings.Server.Host, "127.0.0.1")
	setInt(&settings.Server.Port, 8080)

	// Store
	setInt(&settings.History.Capacity, 10)

	// Storage
	setString(&settings.Storage.Type, config.StorageFile)
	setString(&settings.Storage.Path, filepath.Join(baseDir, "tasks.csv"))
	setString(&settings.Storage.SQLitePath, filepath.Join(baseDir, "tasks.db"))
	setString(&settings.Storage.S3.Bucket, "")
	setString(&settings.Storage.S3.Key, "tasks.csv")
	setString(&settings.Storage.S3.Region, "")

	// Backup (disabled unless a schedule is set)
	setString(&settings.Backup.Schedule, "")
	setString(&settings.Backup.Path, filepath.Join(baseDir, "backup", "tasks.csv"))

	// Logging
	setString(&settings.Log.Level, "info")

	lower := strings.ToLower(strings.TrimSpace(*settings.Storage.Type))
	settings.Storage.Type = &lower
}

func validate(settings *RawSettings) error {
	switch *settings.Storage.Type {
	case config.StorageFile, config.StorageS3, config.StorageSQLite, config.StorageMemory:
	default:
		return fmt.Errorf("storage.type %q must be one of file, s3, sqlite, memory", *settings.Storage.Type)
	}
	if *settings.Storage.Type == config.StorageS3 && *settings.Storage.S3.Bucket == "" {
		return errors.New("storage.s3.bucket is required for s3 storage")
	}
	if port := *settings.Server.Port; port < 0 || port > 65535 {
		return fmt.Errorf("server.port %d out of range", port)
	}
	if *settings.History.Capacity <= 0 {
		return fmt.Errorf("history.capacity must be positive, got %d", *settings.History.Capacity)
	}
	switch strings.ToLower(strings.TrimSpace(*settings.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", *settings.Log.Level)
	}
	return nil
}

// buildAppConfig converts RawSettings to AppConfig
func buildAppConfig(baseDir string, settings *RawSettings, configSource, settingPath string) *config.AppConfig {
	return config.NewAppConfig(
		baseDir,
		*settings.Server.Host,
		*settings.Server.Port,
		*settings.History.Capacity,
		*settings.Storage.Type,
		*settings.Storage.Path,
		*settings.Storage.SQLitePath,
		*settings.Storage.S3.Bucket,
		*settings.Storage.S3.Key,
		*settings.Storage.S3.Region,
		*settings.Backup.Schedule,
		*settings.Backup.Path,
		app.LogLevelFromString(*settings.Log.Level).String(),
		configSource,
		settingPath,
	)
}

// CreateDefaultSettings creates a default config.yaml content
func CreateDefaultSettings(baseDir string) []byte {
	settings := &RawSettings{}
	applyDefaults(settings, baseDir)

	data, _ := yaml.Marshal(settings)
	return data
}
