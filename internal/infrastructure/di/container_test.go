package di

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storagegateway "github.com/YoshitsuguKoike/taskplan/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/taskplan/internal/app"
	appconfig "github.com/YoshitsuguKoike/taskplan/internal/app/config"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
)

func testConfig(storageType, sqlitePath, backupSchedule string) *appconfig.AppConfig {
	return appconfig.NewAppConfig(
		"/home/.taskplan",
		"127.0.0.1", 0,
		10,
		storageType, "/home/.taskplan/tasks.csv", sqlitePath,
		"bucket", "tasks.csv", "",
		backupSchedule, "/home/.taskplan/backup/tasks.csv",
		"info",
		"default", "",
	)
}

func addTask(t *testing.T, c *Container) {
	t.Helper()
	tk, err := task.NewTask("Report", "", model.StatusNew,
		model.NewTimeWindow(time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC), time.Hour))
	require.NoError(t, err)
	_, err = c.GetTaskUseCase().AddTask(context.Background(), tk)
	require.NoError(t, err)
}

func TestContainer_StorageBackends(t *testing.T) {
	ctx := context.Background()
	s3Client := storagegateway.NewMockS3Client()

	tests := []struct {
		name       string
		cfg        *appconfig.AppConfig
		persistent bool
	}{
		{"File", testConfig(appconfig.StorageFile, "", ""), true},
		{"S3", testConfig(appconfig.StorageS3, "", ""), true},
		{"SQLite", testConfig(appconfig.StorageSQLite, filepath.Join(t.TempDir(), "db", "tasks.db"), ""), true},
		{"Memory", testConfig(appconfig.StorageMemory, "", ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			opts := Options{Logger: app.NopLogger(), Fs: fs, S3Client: s3Client}

			c, err := NewContainer(ctx, tt.cfg, opts)
			require.NoError(t, err)
			addTask(t, c)
			require.NoError(t, c.Close(ctx))

			// A second container over the same storage sees the task
			reopened, err := NewContainer(ctx, tt.cfg, opts)
			require.NoError(t, err)
			defer reopened.Close(ctx)

			tasks, err := reopened.GetTaskUseCase().ListTasks(ctx)
			require.NoError(t, err)
			if tt.persistent {
				assert.Len(t, tasks, 1)
			} else {
				assert.Empty(t, tasks)
			}
		})
	}
}

func TestContainer_UnknownStorage(t *testing.T) {
	_, err := NewContainer(context.Background(), testConfig("redis", "", ""), Options{Logger: app.NopLogger()})
	assert.Error(t, err)
}

func TestContainer_CorruptSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/home/.taskplan/tasks.csv", []byte("header\n1,BOGUS,x,NEW,y\n"), 0o644))

	_, err := NewContainer(context.Background(), testConfig(appconfig.StorageFile, "", ""), Options{Logger: app.NopLogger(), Fs: fs})
	assert.Error(t, err)
}

func TestContainer_Backup(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	c, err := NewContainer(ctx, testConfig(appconfig.StorageMemory, "", "@hourly"), Options{Logger: app.NopLogger(), Fs: fs})
	require.NoError(t, err)
	require.NotNil(t, c.GetBackup())

	addTask(t, c)
	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.GetBackup().RunOnce(ctx))
	require.NoError(t, c.Close(ctx))

	exists, err := afero.Exists(fs, "/home/.taskplan/backup/tasks.csv")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestContainer_InvalidBackupSchedule(t *testing.T) {
	_, err := NewContainer(context.Background(), testConfig(appconfig.StorageMemory, "", "sometimes"), Options{Logger: app.NopLogger()})
	assert.Error(t, err)
}

func TestContainer_Server(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(appconfig.StorageMemory, "", ""), Options{Logger: app.NopLogger()})
	require.NoError(t, err)
	defer c.Close(context.Background())

	srv := c.GetServer()
	require.NotNil(t, srv)
	assert.Same(t, srv, c.GetServer())
	assert.NotNil(t, srv.Handler())
	assert.Equal(t, "127.0.0.1:0", c.GetConfig().Addr())
}
