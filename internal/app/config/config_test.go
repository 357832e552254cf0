package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppConfig_Accessors(t *testing.T) {
	c := NewAppConfig(
		"/home/.taskplan",
		"0.0.0.0", 9090,
		5,
		StorageS3, "/home/.taskplan/tasks.csv", "/home/.taskplan/tasks.db",
		"bucket", "tasks.csv", "ap-northeast-1",
		"@hourly", "/backup/tasks.csv",
		"debug",
		"yaml", "/home/.taskplan/config.yaml",
	)

	assert.Equal(t, "/home/.taskplan", c.Home())
	assert.Equal(t, "0.0.0.0:9090", c.Addr())
	assert.Equal(t, 5, c.HistoryCapacity())
	assert.Equal(t, StorageS3, c.StorageType())
	assert.Equal(t, "/home/.taskplan/tasks.csv", c.StoragePath())
	assert.Equal(t, "/home/.taskplan/tasks.db", c.SQLitePath())
	assert.Equal(t, "bucket", c.S3Bucket())
	assert.Equal(t, "tasks.csv", c.S3Key())
	assert.Equal(t, "ap-northeast-1", c.S3Region())
	assert.Equal(t, "@hourly", c.BackupSchedule())
	assert.Equal(t, "/backup/tasks.csv", c.BackupPath())
	assert.Equal(t, "debug", c.LogLevel())
	assert.Equal(t, "yaml", c.ConfigSource())
	assert.Equal(t, "/home/.taskplan/config.yaml", c.SettingPath())
}

func TestAppConfig_AddrIPv6(t *testing.T) {
	c := NewAppConfig("", "::1", 8080, 10, StorageMemory, "", "", "", "", "", "", "", "info", "default", "")
	assert.Equal(t, "[::1]:8080", c.Addr())
}
