package backup

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/taskplan/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/taskplan/internal/app"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/repository"
	"github.com/YoshitsuguKoike/taskplan/internal/infrastructure/persistence/record"
)

type stubSource struct {
	snap *repository.Snapshot
	err  error
}

func (s *stubSource) Snapshot(ctx context.Context) (*repository.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap.Clone(), nil
}

func newTarget() *record.Repository {
	return record.NewRepository(storage.NewLocalBlobGatewayWithFs(afero.NewMemMapFs(), "/backup/tasks.csv"))
}

func sampleSnapshot() *repository.Snapshot {
	return &repository.Snapshot{
		Tasks: []*task.Task{
			task.ReconstructTask(1, "Report", "", model.StatusNew,
				model.NewTimeWindow(time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC), time.Hour)),
		},
	}
}

func TestNewScheduler_Validation(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"Standard", "0 * * * *", false},
		{"Descriptor", "@hourly", false},
		{"Every", "@every 30m", false},
		{"Garbage", "whenever", true},
		{"Too many fields", "0 0 * * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScheduler(tt.spec, &stubSource{}, newTarget(), app.NopLogger())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := NewScheduler("@hourly", nil, newTarget(), nil)
	assert.Error(t, err)
}

func TestScheduler_RunOnce(t *testing.T) {
	ctx := context.Background()
	target := newTarget()
	s, err := NewScheduler("@hourly", &stubSource{snap: sampleSnapshot()}, target, app.NopLogger())
	require.NoError(t, err)

	require.NoError(t, s.RunOnce(ctx))

	snap, err := target.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "Report", snap.Tasks[0].Name())

	last, runs := s.Last()
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, last.Entities)
	assert.NoError(t, last.Err)
}

func TestScheduler_RunOnceSourceFailure(t *testing.T) {
	ctx := context.Background()
	target := newTarget()
	s, err := NewScheduler("@hourly", &stubSource{err: assert.AnError}, target, app.NopLogger())
	require.NoError(t, err)

	err = s.RunOnce(ctx)
	assert.ErrorIs(t, err, assert.AnError)

	_, err = target.Load(ctx)
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)

	last, runs := s.Last()
	assert.Equal(t, 1, runs)
	assert.ErrorIs(t, last.Err, assert.AnError)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler("@every 1s", &stubSource{snap: sampleSnapshot()}, newTarget(), app.NopLogger())
	require.NoError(t, err)

	_, ok := s.Next()
	assert.False(t, ok)

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start is rejected")

	require.Eventually(t, func() bool {
		_, runs := s.Last()
		return runs > 0
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx), "stopping twice is a no-op")

	_, ok = s.Next()
	assert.False(t, ok)
}
