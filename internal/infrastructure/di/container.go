package di

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	storagegateway "github.com/YoshitsuguKoike/taskplan/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/taskplan/internal/app"
	appconfig "github.com/YoshitsuguKoike/taskplan/internal/app/config"
	"github.com/YoshitsuguKoike/taskplan/internal/application/port/input"
	"github.com/YoshitsuguKoike/taskplan/internal/application/service"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/repository"
	"github.com/YoshitsuguKoike/taskplan/internal/infrastructure/backup"
	"github.com/YoshitsuguKoike/taskplan/internal/infrastructure/persistence/record"
	sqliterepo "github.com/YoshitsuguKoike/taskplan/internal/infrastructure/persistence/sqlite"
	"github.com/YoshitsuguKoike/taskplan/internal/interface/httpapi"
)

// Container is the DI container that holds all dependencies.
// This implements manual dependency injection for Clean Architecture.
type Container struct {
	// Configuration
	config  appconfig.Config
	options Options

	// Infrastructure Layer - Repositories
	snapshotRepo repository.SnapshotRepository
	sqliteRepo   *sqliterepo.SnapshotRepository

	// Infrastructure Layer - Backup
	backup *backup.Scheduler

	// Application Layer - Services
	taskManager *service.PersistentTaskManager

	// Interface Layer - HTTP
	server *httpapi.Server

	logger app.Logger
}

// Options overrides collaborators; zero values use the real implementations
type Options struct {
	Logger    app.Logger
	LogOutput io.Writer            // Used when Logger is nil (default: stderr)
	Fs        afero.Fs             // Filesystem for record files (default: OS)
	S3Client  storagegateway.S3API // S3 client (default: AWS SDK client)
}

// NewContainer wires every component from the configuration and loads the
// stored snapshot into the task manager.
func NewContainer(ctx context.Context, cfg appconfig.Config, opts Options) (*Container, error) {
	c := &Container{
		config:  cfg,
		options: opts,
	}

	if c.options.Fs == nil {
		c.options.Fs = afero.NewOsFs()
	}
	c.logger = opts.Logger
	if c.logger == nil {
		out := opts.LogOutput
		if out == nil {
			out = os.Stderr
		}
		c.logger = app.NewLogger(app.LogLevelFromString(cfg.LogLevel()), out)
	}

	// Initialize dependencies in dependency order
	if err := c.initializeInfrastructure(ctx); err != nil {
		c.Close(ctx)
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	if err := c.initializeApplication(ctx); err != nil {
		c.Close(ctx)
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return c, nil
}

// initializeInfrastructure initializes infrastructure layer components
func (c *Container) initializeInfrastructure(ctx context.Context) error {
	// 1. Snapshot repository based on storage type
	switch c.config.StorageType() {
	case appconfig.StorageFile:
		gateway := storagegateway.NewLocalBlobGatewayWithFs(c.options.Fs, c.config.StoragePath())
		c.snapshotRepo = record.NewRepository(gateway)

	case appconfig.StorageS3:
		gateway, err := c.newS3Gateway(ctx)
		if err != nil {
			return fmt.Errorf("failed to create S3 blob gateway: %w", err)
		}
		c.snapshotRepo = record.NewRepository(gateway)

	case appconfig.StorageSQLite:
		path := c.config.SQLitePath()
		if !strings.HasPrefix(path, "file:") && path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		repo, err := sqliterepo.Open(ctx, path)
		if err != nil {
			return err
		}
		c.sqliteRepo = repo
		c.snapshotRepo = repo

	case appconfig.StorageMemory:
		// Nothing is persisted

	default:
		return fmt.Errorf("unknown storage type: %s", c.config.StorageType())
	}

	c.logger.Debug("storage: %s", c.describeStorage())
	return nil
}

func (c *Container) newS3Gateway(ctx context.Context) (*storagegateway.S3BlobGateway, error) {
	if c.options.S3Client != nil {
		if c.config.S3Bucket() == "" {
			return nil, fmt.Errorf("S3 bucket name is required for S3 storage")
		}
		return storagegateway.NewS3BlobGatewayWithClient(c.options.S3Client, c.config.S3Bucket(), c.config.S3Key()), nil
	}
	return storagegateway.NewS3BlobGateway(ctx, storagegateway.S3Config{
		Bucket: c.config.S3Bucket(),
		Key:    c.config.S3Key(),
		Region: c.config.S3Region(),
	})
}

// initializeApplication initializes application layer components
func (c *Container) initializeApplication(ctx context.Context) error {
	// 1. Task manager over the snapshot repository
	c.taskManager = service.NewPersistentTaskManager(
		service.NewTaskManager(c.config.HistoryCapacity()),
		c.snapshotRepo,
		c.logger,
	)
	if err := c.taskManager.Load(ctx); err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	// 2. Backup scheduler (optional)
	if c.config.BackupSchedule() != "" {
		target := record.NewRepository(storagegateway.NewLocalBlobGatewayWithFs(c.options.Fs, c.config.BackupPath()))
		scheduler, err := backup.NewScheduler(c.config.BackupSchedule(), c.taskManager, target, c.logger)
		if err != nil {
			return err
		}
		c.backup = scheduler
	}

	return nil
}

func (c *Container) describeStorage() string {
	switch c.config.StorageType() {
	case appconfig.StorageFile:
		return "file " + c.config.StoragePath()
	case appconfig.StorageS3:
		return fmt.Sprintf("s3://%s/%s", c.config.S3Bucket(), c.config.S3Key())
	case appconfig.StorageSQLite:
		return "sqlite " + c.config.SQLitePath()
	default:
		return c.config.StorageType()
	}
}

// GetTaskUseCase returns the task use case
func (c *Container) GetTaskUseCase() input.TaskUseCase {
	return c.taskManager
}

// GetTaskManager returns the persistent task manager
func (c *Container) GetTaskManager() *service.PersistentTaskManager {
	return c.taskManager
}

// GetBackup returns the backup scheduler, nil when backups are disabled
func (c *Container) GetBackup() *backup.Scheduler {
	return c.backup
}

// GetLogger returns the container's logger
func (c *Container) GetLogger() app.Logger {
	return c.logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() appconfig.Config {
	return c.config
}

// GetServer returns the HTTP server, created on first call
func (c *Container) GetServer() *httpapi.Server {
	if c.server == nil {
		c.server = httpapi.NewServer(c.taskManager, c.config.Addr(), c.logger)
	}
	return c.server
}

// Start starts background services
func (c *Container) Start(ctx context.Context) error {
	if c.backup != nil {
		if err := c.backup.Start(); err != nil {
			return fmt.Errorf("failed to start backup: %w", err)
		}
	}
	return nil
}

// Close stops background services and closes all resources held by the container
func (c *Container) Close(ctx context.Context) error {
	if c.backup != nil {
		if err := c.backup.Stop(ctx); err != nil {
			// Log error but continue closing other resources
			c.logger.Warn("failed to stop backup: %v", err)
		}
	}

	if c.sqliteRepo != nil {
		return c.sqliteRepo.Close()
	}
	return nil
}
