package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/taskplan/internal/application/port/output"
)

// ==================== LocalBlobGateway Tests ====================

func TestLocalBlobGateway_WriteAndRead(t *testing.T) {
	fs := afero.NewMemMapFs()
	gateway := NewLocalBlobGatewayWithFs(fs, "/data/taskplan/tasks.csv")
	ctx := context.Background()

	require.NoError(t, gateway.Write(ctx, []byte("first")))
	require.NoError(t, gateway.Write(ctx, []byte("second")))

	data, err := gateway.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, "/data/taskplan/tasks.csv", gateway.Location())

	// No temp files are left behind
	entries, err := afero.ReadDir(fs, "/data/taskplan")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tasks.csv", entries[0].Name())
}

func TestLocalBlobGateway_ReadMissing(t *testing.T) {
	gateway := NewLocalBlobGatewayWithFs(afero.NewMemMapFs(), "/nope/tasks.csv")

	_, err := gateway.Read(context.Background())
	assert.ErrorIs(t, err, output.ErrBlobNotFound)
}

func TestLocalBlobGateway_FailedWriteKeepsPreviousContent(t *testing.T) {
	base := afero.NewMemMapFs()
	path := "/data/tasks.csv"
	require.NoError(t, NewLocalBlobGatewayWithFs(base, path).Write(context.Background(), []byte("good")))

	// A read-only view makes temp file creation fail
	readOnly := NewLocalBlobGatewayWithFs(afero.NewReadOnlyFs(base), path)
	err := readOnly.Write(context.Background(), []byte("bad"))
	require.Error(t, err)

	data, err := readOnly.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "good", string(data))
}

func TestLocalBlobGateway_CanceledContext(t *testing.T) {
	gateway := NewLocalBlobGatewayWithFs(afero.NewMemMapFs(), "/data/tasks.csv")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := gateway.Write(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

// ==================== S3BlobGateway Tests ====================

func TestS3BlobGateway_WriteAndRead(t *testing.T) {
	mockClient := NewMockS3Client()
	gateway := NewS3BlobGatewayWithClient(mockClient, "test-bucket", "taskplan/tasks.csv")
	ctx := context.Background()

	require.NoError(t, gateway.Write(ctx, []byte("id,type\n")))
	require.NoError(t, gateway.Write(ctx, []byte("id,type\n1,TASK\n")))

	data, err := gateway.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "id,type\n1,TASK\n", string(data))

	assert.Equal(t, 1, mockClient.ObjectCount())
	assert.Equal(t, 2, mockClient.PutCount())
	contentType, ok := mockClient.ContentType("test-bucket", "taskplan/tasks.csv")
	require.True(t, ok)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, "s3://test-bucket/taskplan/tasks.csv", gateway.Location())
}

func TestS3BlobGateway_ReadMissing(t *testing.T) {
	gateway := NewS3BlobGatewayWithClient(NewMockS3Client(), "test-bucket", "missing.csv")

	_, err := gateway.Read(context.Background())
	assert.ErrorIs(t, err, output.ErrBlobNotFound)
}

func TestS3BlobGateway_WriteFailure(t *testing.T) {
	mockClient := NewMockS3Client()
	gateway := NewS3BlobGatewayWithClient(mockClient, "test-bucket", "tasks.csv")
	ctx := context.Background()
	require.NoError(t, gateway.Write(ctx, []byte("v1")))

	mockClient.PutErr = errors.New("throttled")
	err := gateway.Write(ctx, []byte("v2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")

	data, err := gateway.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}

func TestS3BlobGateway_Delete(t *testing.T) {
	mockClient := NewMockS3Client()
	gateway := NewS3BlobGatewayWithClient(mockClient, "test-bucket", "tasks.csv")
	ctx := context.Background()
	require.NoError(t, gateway.Write(ctx, []byte("v1")))

	require.NoError(t, gateway.Delete(ctx))
	_, err := gateway.Read(ctx)
	assert.ErrorIs(t, err, output.ErrBlobNotFound)
}

func TestNewS3BlobGateway_Validation(t *testing.T) {
	_, err := NewS3BlobGateway(context.Background(), S3Config{Key: "k"})
	assert.Error(t, err)

	_, err = NewS3BlobGateway(context.Background(), S3Config{Bucket: "b"})
	assert.Error(t, err)
}
