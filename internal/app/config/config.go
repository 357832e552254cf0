package config

import (
	"net"
	"strconv"
)

// Storage backends
const (
	StorageFile   = "file"
	StorageS3     = "s3"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config provides read-only access to application configuration.
// The app layer depends on this interface, not on how settings are loaded.
type Config interface {
	// Core settings
	Home() string // Base directory (TASKPLAN_HOME)

	// Server
	ServerHost() string
	ServerPort() int
	Addr() string // host:port (TASKPLAN_ADDR)

	// Store
	HistoryCapacity() int

	// Storage
	StorageType() string // file, s3, sqlite or memory (TASKPLAN_STORAGE)
	StoragePath() string // Record file path for "file"
	SQLitePath() string  // Database path for "sqlite"
	S3Bucket() string
	S3Key() string
	S3Region() string

	// Backup
	BackupSchedule() string // Cron spec, empty disables backups
	BackupPath() string     // Record file the backups are written to

	// Logging
	LogLevel() string // debug, info, warn or error (TASKPLAN_LOG_LEVEL)

	// Metadata
	ConfigSource() string // "yaml" or "default"
	SettingPath() string  // Path to config.yaml if loaded from file
}

// AppConfig is the concrete implementation of Config interface
type AppConfig struct {
	home string

	serverHost string
	serverPort int

	historyCapacity int

	storageType string
	storagePath string
	sqlitePath  string
	s3Bucket    string
	s3Key       string
	s3Region    string

	backupSchedule string
	backupPath     string

	logLevel string

	configSource string
	settingPath  string
}

var _ Config = (*AppConfig)(nil)

// Home returns the base directory
func (c *AppConfig) Home() string {
	return c.home
}

// ServerHost returns the HTTP listen host
func (c *AppConfig) ServerHost() string {
	return c.serverHost
}

// ServerPort returns the HTTP listen port
func (c *AppConfig) ServerPort() int {
	return c.serverPort
}

// Addr returns the HTTP listen address
func (c *AppConfig) Addr() string {
	return net.JoinHostPort(c.serverHost, strconv.Itoa(c.serverPort))
}

// HistoryCapacity returns the number of entries the view history keeps
func (c *AppConfig) HistoryCapacity() int {
	return c.historyCapacity
}

// StorageType returns the snapshot backend
func (c *AppConfig) StorageType() string {
	return c.storageType
}

// StoragePath returns the record file path
func (c *AppConfig) StoragePath() string {
	return c.storagePath
}

// SQLitePath returns the SQLite database path
func (c *AppConfig) SQLitePath() string {
	return c.sqlitePath
}

// S3Bucket returns the bucket holding the record file
func (c *AppConfig) S3Bucket() string {
	return c.s3Bucket
}

// S3Key returns the object key of the record file
func (c *AppConfig) S3Key() string {
	return c.s3Key
}

// S3Region returns the AWS region, empty for the SDK default
func (c *AppConfig) S3Region() string {
	return c.s3Region
}

// BackupSchedule returns the backup cron spec
func (c *AppConfig) BackupSchedule() string {
	return c.backupSchedule
}

// BackupPath returns the backup record file path
func (c *AppConfig) BackupPath() string {
	return c.backupPath
}

// LogLevel returns the minimum log level
func (c *AppConfig) LogLevel() string {
	return c.logLevel
}

// ConfigSource returns the source of configuration
func (c *AppConfig) ConfigSource() string {
	return c.configSource
}

// SettingPath returns the path to config.yaml if loaded from file
func (c *AppConfig) SettingPath() string {
	return c.settingPath
}

// NewAppConfig creates a new AppConfig with the given values.
// This is typically called by the infrastructure layer after loading and merging configurations.
func NewAppConfig(
	home string,
	serverHost string, serverPort int,
	historyCapacity int,
	storageType, storagePath, sqlitePath string,
	s3Bucket, s3Key, s3Region string,
	backupSchedule, backupPath string,
	logLevel string,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		home:            home,
		serverHost:      serverHost,
		serverPort:      serverPort,
		historyCapacity: historyCapacity,
		storageType:     storageType,
		storagePath:     storagePath,
		sqlitePath:      sqlitePath,
		s3Bucket:        s3Bucket,
		s3Key:           s3Key,
		s3Region:        s3Region,
		backupSchedule:  backupSchedule,
		backupPath:      backupPath,
		logLevel:        logLevel,
		configSource:    configSource,
		settingPath:     settingPath,
	}
}
