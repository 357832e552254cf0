package record

import (
	"context"
	"errors"

	"github.com/YoshitsuguKoike/taskplan/internal/application/port/output"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/repository"
)

// Repository stores snapshots as a record file behind a BlobGateway
type Repository struct {
	gateway output.BlobGateway
}

var _ repository.SnapshotRepository = (*Repository)(nil)

// NewRepository creates a record file repository
func NewRepository(gateway output.BlobGateway) *Repository {
	return &Repository{gateway: gateway}
}

// Save implements repository.SnapshotRepository
func (r *Repository) Save(ctx context.Context, s *repository.Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return repository.NewSaveError(err)
	}
	if err := r.gateway.Write(ctx, data); err != nil {
		return repository.NewSaveError(err)
	}
	return nil
}

// Load implements repository.SnapshotRepository
func (r *Repository) Load(ctx context.Context) (*repository.Snapshot, error) {
	data, err := r.gateway.Read(ctx)
	if errors.Is(err, output.ErrBlobNotFound) {
		return nil, repository.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, repository.NewLoadError(err)
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, repository.NewLoadError(err)
	}
	return snap, nil
}

// Location describes where the record file lives
func (r *Repository) Location() string {
	return r.gateway.Location()
}
