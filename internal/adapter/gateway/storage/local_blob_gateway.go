package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/taskplan/internal/application/port/output"
)

// LocalBlobGateway implements output.BlobGateway with a single file.
// Writes go to a temp file in the same directory which is synced and then
// renamed over the target, so a failed write never leaves a partial file.
type LocalBlobGateway struct {
	fs   afero.Fs
	path string
}

var _ output.BlobGateway = (*LocalBlobGateway)(nil)

// NewLocalBlobGateway creates a gateway for path on the OS filesystem
func NewLocalBlobGateway(path string) *LocalBlobGateway {
	return NewLocalBlobGatewayWithFs(afero.NewOsFs(), path)
}

// NewLocalBlobGatewayWithFs creates a gateway on a custom filesystem.
// Tests use afero.NewMemMapFs().
func NewLocalBlobGatewayWithFs(fs afero.Fs, path string) *LocalBlobGateway {
	return &LocalBlobGateway{fs: fs, path: path}
}

// Read returns the file content or output.ErrBlobNotFound
func (g *LocalBlobGateway) Read(ctx context.Context) ([]byte, error) {
	data, err := afero.ReadFile(g.fs, g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, output.ErrBlobNotFound
		}
		return nil, fmt.Errorf("read %s: %w", g.path, err)
	}
	return data, nil
}

// Write replaces the file atomically
func (g *LocalBlobGateway) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeFileAtomic(g.fs, g.path, data)
}

// Location returns the file path
func (g *LocalBlobGateway) Location() string {
	return g.path
}

// writeFileAtomic writes data using temp file + sync + rename
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory so the rename does not cross filesystems
	tmpFile, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	renamed = true
	return nil
}
