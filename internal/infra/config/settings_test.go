package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/taskplan/internal/app/config"
)

const home = "/srv/.taskplan"

func writeSettings(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(home, SettingFile), []byte(content), 0o644))
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name        string
		content     string // empty means no file
		envVars     map[string]string
		wantAddr    string
		wantStorage string
		wantLevel   string
		wantSource  string
	}{
		{
			name:        "Default values only",
			wantAddr:    "127.0.0.1:8080",
			wantStorage: config.StorageFile,
			wantLevel:   "info",
			wantSource:  "default",
		},
		{
			name: "YAML file only",
			content: `
server:
  host: 0.0.0.0
  port: 9000
storage:
  type: SQLite
log:
  level: debug
`,
			wantAddr:    "0.0.0.0:9000",
			wantStorage: config.StorageSQLite,
			wantLevel:   "debug",
			wantSource:  "yaml",
		},
		{
			name: "YAML with ENV override",
			content: `
server:
  port: 9000
storage:
  type: sqlite
`,
			envVars: map[string]string{
				EnvAddr:     "localhost:7000",
				EnvStorage:  "memory",
				EnvLogLevel: "warning",
			},
			wantAddr:    "localhost:7000",
			wantStorage: config.StorageMemory,
			wantLevel:   "warn",
			wantSource:  "yaml",
		},
		{
			name:        "Empty file",
			content:     "# nothing here\n",
			wantAddr:    "127.0.0.1:8080",
			wantStorage: config.StorageFile,
			wantLevel:   "info",
			wantSource:  "yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			fs := afero.NewMemMapFs()
			if tt.content != "" {
				writeSettings(t, fs, tt.content)
			}

			cfg, err := LoadSettingsFs(fs, home)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, cfg.Addr())
			assert.Equal(t, tt.wantStorage, cfg.StorageType())
			assert.Equal(t, tt.wantLevel, cfg.LogLevel())
			assert.Equal(t, tt.wantSource, cfg.ConfigSource())
		})
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	cfg, err := LoadSettingsFs(afero.NewMemMapFs(), home)
	require.NoError(t, err)

	assert.Equal(t, home, cfg.Home())
	assert.Equal(t, 10, cfg.HistoryCapacity())
	assert.Equal(t, filepath.Join(home, "tasks.csv"), cfg.StoragePath())
	assert.Equal(t, filepath.Join(home, "tasks.db"), cfg.SQLitePath())
	assert.Equal(t, "tasks.csv", cfg.S3Key())
	assert.Empty(t, cfg.BackupSchedule())
	assert.Equal(t, filepath.Join(home, "backup", "tasks.csv"), cfg.BackupPath())
	assert.Empty(t, cfg.SettingPath())
}

func TestLoadSettings_S3AndBackup(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSettings(t, fs, `
history:
  capacity: 3
storage:
  type: s3
  s3:
    bucket: plans
    key: team/tasks.csv
    region: eu-west-1
backup:
  schedule: "@every 15m"
  path: /backups/tasks.csv
`)

	cfg, err := LoadSettingsFs(fs, home)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.HistoryCapacity())
	assert.Equal(t, "plans", cfg.S3Bucket())
	assert.Equal(t, "team/tasks.csv", cfg.S3Key())
	assert.Equal(t, "eu-west-1", cfg.S3Region())
	assert.Equal(t, "@every 15m", cfg.BackupSchedule())
	assert.Equal(t, "/backups/tasks.csv", cfg.BackupPath())
	assert.Equal(t, filepath.Join(home, SettingFile), cfg.SettingPath())
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		envVars map[string]string
	}{
		{"Unknown field", "server:\n  hots: x\n", nil},
		{"Malformed YAML", "server: [\n", nil},
		{"Unknown storage", "storage:\n  type: redis\n", nil},
		{"S3 without bucket", "storage:\n  type: s3\n", nil},
		{"Port out of range", "server:\n  port: 70000\n", nil},
		{"Zero capacity", "history:\n  capacity: 0\n", nil},
		{"Unknown log level", "log:\n  level: loud\n", nil},
		{"Bad addr env", "", map[string]string{EnvAddr: "no-port"}},
		{"Bad port env", "", map[string]string{EnvAddr: "host:http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			fs := afero.NewMemMapFs()
			if tt.content != "" {
				writeSettings(t, fs, tt.content)
			}

			_, err := LoadSettingsFs(fs, home)
			assert.Error(t, err)
		})
	}
}

func TestResolveHome(t *testing.T) {
	t.Setenv(EnvHome, "")
	assert.Equal(t, DefaultHome, ResolveHome())

	t.Setenv(EnvHome, "/custom")
	assert.Equal(t, "/custom", ResolveHome())
}

func TestCreateDefaultSettings(t *testing.T) {
	data := CreateDefaultSettings(home)

	fs := afero.NewMemMapFs()
	writeSettings(t, fs, string(data))
	cfg, err := LoadSettingsFs(fs, home)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())

	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "storage")
}
