package record

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/taskplan/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/taskplan/internal/application/service"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/epic"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/subtask"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/repository"
)

var start = time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC)

// populatedManager builds a store with one task and an epic holding two subtasks
func populatedManager(t *testing.T) *service.TaskManager {
	t.Helper()
	m := service.NewTaskManager(10)

	tk, err := task.NewTask("Write, \"quoted\" report", "multi\nline", model.StatusInProgress, model.NewTimeWindow(start, 90*time.Minute))
	require.NoError(t, err)
	_, err = m.AddTask(tk)
	require.NoError(t, err)

	epicID, err := m.AddEpic(epic.NewEpic("Release", "v2"))
	require.NoError(t, err)

	for i, status := range []model.Status{model.StatusDone, model.StatusNew} {
		s, err := subtask.NewSubtask(epicID, "step", "", status, model.NewTimeWindow(start.Add(time.Duration(3+i*2)*time.Hour), time.Hour))
		require.NoError(t, err)
		_, err = m.AddSubtask(s)
		require.NoError(t, err)
	}
	return m
}

// ==================== Codec Tests ====================

func TestEncode_Layout(t *testing.T) {
	data, err := Encode(populatedManager(t).Snapshot())
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	assert.Equal(t, "id,type,name,status,description,epic,start,duration", lines[0])
	assert.Contains(t, string(data), "2,EPIC,Release,IN_PROGRESS,v2,,")
	assert.Contains(t, string(data), "3,SUBTASK,step,DONE,,2,2024-09-02T12:00:00Z,1h0m0s")
}

func TestEncode_EmptySnapshot(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "id,type,name,status,description,epic,start,duration\n", string(data))

	snap, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
}

func TestDecode_ShortLayout(t *testing.T) {
	data := "id,type,name,status,description,epic\n" +
		"1,TASK,Task1,NEW,Description task1\n" +
		"2,EPIC,Epic2,DONE,Description epic2\n" +
		"3,SUBTASK,Sub Task2,DONE,Description sub task3,2\n"

	snap, err := Decode([]byte(data))
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 1)
	require.Len(t, snap.Epics, 1)
	require.Len(t, snap.Subtasks, 1)

	assert.Equal(t, "Task1", snap.Tasks[0].Name())
	assert.False(t, snap.Tasks[0].Window().HasStart())
	assert.Equal(t, model.TaskID(2), snap.Subtasks[0].EpicID())
	assert.Equal(t, model.StatusDone, snap.Subtasks[0].Status())
}

func TestDecode_Errors(t *testing.T) {
	header := strings.Join(Header, ",") + "\n"

	tests := []struct {
		name string
		row  string
	}{
		{"Unknown type", "1,STORY,n,NEW,d,,,"},
		{"Bad id", "x,TASK,n,NEW,d,,,"},
		{"Bad status", "1,TASK,n,PAUSED,d,,,"},
		{"Bad start", "1,TASK,n,NEW,d,,yesterday,1h"},
		{"Bad duration", "1,TASK,n,NEW,d,,,forever"},
		{"Subtask without epic", "1,SUBTASK,n,NEW,d,,,"},
		{"Too few fields", "1,TASK,n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(header + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

// ==================== Repository Tests ====================

func TestRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	gateways := map[string]func() *Repository{
		"local": func() *Repository {
			return NewRepository(storage.NewLocalBlobGatewayWithFs(afero.NewMemMapFs(), "/home/.taskplan/tasks.csv"))
		},
		"s3": func() *Repository {
			return NewRepository(storage.NewS3BlobGatewayWithClient(storage.NewMockS3Client(), "bucket", "tasks.csv"))
		},
	}

	for name, newRepo := range gateways {
		t.Run(name, func(t *testing.T) {
			repo := newRepo()
			orig := populatedManager(t)
			require.NoError(t, repo.Save(ctx, orig.Snapshot()))

			snap, err := repo.Load(ctx)
			require.NoError(t, err)

			loaded := service.NewTaskManager(10)
			require.NoError(t, loaded.Restore(snap))

			assertSameTasks(t, orig.Tasks(), loaded.Tasks())
			assertSameSubtasks(t, orig.Subtasks(), loaded.Subtasks())

			wantEpics, gotEpics := orig.Epics(), loaded.Epics()
			require.Len(t, gotEpics, len(wantEpics))
			for i := range wantEpics {
				assert.Equal(t, wantEpics[i].ID(), gotEpics[i].ID())
				assert.Equal(t, wantEpics[i].Name(), gotEpics[i].Name())
				assert.Equal(t, wantEpics[i].Status(), gotEpics[i].Status())
				assert.Equal(t, wantEpics[i].SubtaskIDs(), gotEpics[i].SubtaskIDs())
				assert.True(t, wantEpics[i].Window().Equal(gotEpics[i].Window()))
			}
			assert.Equal(t, orig.NextID(), loaded.NextID())
		})
	}
}

func assertSameTasks(t *testing.T, want, got []*task.Task) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID(), got[i].ID())
		assert.Equal(t, want[i].Name(), got[i].Name())
		assert.Equal(t, want[i].Description(), got[i].Description())
		assert.Equal(t, want[i].Status(), got[i].Status())
		assert.True(t, want[i].Window().Equal(got[i].Window()), "window %v != %v", want[i].Window(), got[i].Window())
	}
}

func assertSameSubtasks(t *testing.T, want, got []*subtask.Subtask) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID(), got[i].ID())
		assert.Equal(t, want[i].EpicID(), got[i].EpicID())
		assert.Equal(t, want[i].Name(), got[i].Name())
		assert.Equal(t, want[i].Status(), got[i].Status())
		assert.True(t, want[i].Window().Equal(got[i].Window()))
	}
}

func TestRepository_LoadMissing(t *testing.T) {
	repo := NewRepository(storage.NewLocalBlobGatewayWithFs(afero.NewMemMapFs(), "/x/tasks.csv"))

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
}

func TestRepository_LoadCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/x/tasks.csv", []byte("header\n1,BOGUS,a,NEW,b\n"), 0o644))
	repo := NewRepository(storage.NewLocalBlobGatewayWithFs(fs, "/x/tasks.csv"))

	_, err := repo.Load(context.Background())
	var perr *repository.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)
}

func TestRepository_SaveFailure(t *testing.T) {
	client := storage.NewMockS3Client()
	client.PutErr = assert.AnError
	repo := NewRepository(storage.NewS3BlobGatewayWithClient(client, "bucket", "tasks.csv"))

	err := repo.Save(context.Background(), &repository.Snapshot{})
	var perr *repository.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save", perr.Op)
	assert.Equal(t, "bucket", strings.Split(strings.TrimPrefix(repo.Location(), "s3://"), "/")[0])
}
