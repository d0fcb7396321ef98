package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	apierrors "voxtral-server/internal/api/errors"
	"voxtral-server/internal/app/api"
	"voxtral-server/internal/app/audio"
	"voxtral-server/internal/app/service"
	"voxtral-server/internal/app/testutil"
)

func newService(t *testing.T, tr api.Transcriber) *service.TranscriptionService {
	t.Helper()
	return service.New(func() (api.Transcriber, error) {
		return tr, nil
	}, zap.NewNop()).WithTempDir(t.TempDir())
}

func wavRequest() service.TranscriptionRequest {
	return service.TranscriptionRequest{
		Language: "en",
		Filename: "test.wav",
		Audio:    audio.SilentWAV(100*time.Millisecond, 16000, 1, 16),
	}
}

func TestHealth_BeforeAndAfterInitialize(t *testing.T) {
	mockT := testutil.NewMockTranscriber()
	mockT.DeviceName = "cuda"
	mockT.GPU = true
	svc := newService(t, mockT)

	health := svc.Health()
	assert.Equal(t, "unhealthy", health.Status)
	assert.False(t, health.ModelLoaded)
	assert.Equal(t, "unknown", health.Device)
	assert.False(t, health.GPUAvailable)

	require.NoError(t, svc.Initialize())

	health = svc.Health()
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.ModelLoaded)
	assert.Equal(t, "cuda", health.Device)
	assert.True(t, health.GPUAvailable)
}

func TestInitialize_FailureIsNotFatal(t *testing.T) {
	svc := service.New(func() (api.Transcriber, error) {
		return nil, errors.New("model weights not found")
	}, zap.NewNop())

	err := svc.Initialize()
	require.Error(t, err)

	// Service still answers health queries after a failed init.
	health := svc.Health()
	assert.Equal(t, "unhealthy", health.Status)
	assert.False(t, health.ModelLoaded)
}

func TestTranscribe_NoHandle(t *testing.T) {
	svc := newService(t, testutil.NewMockTranscriber())
	// Initialize never called: handle absent.

	_, err := svc.Transcribe(context.Background(), wavRequest())
	require.Error(t, err)

	apiErr, ok := err.(*apierrors.APIError)
	require.True(t, ok, "expected a typed APIError")
	assert.Equal(t, apierrors.KindServiceUnavailable, apiErr.Kind)
}

func TestTranscribe_Success(t *testing.T) {
	mockT := testutil.NewMockTranscriber()
	mockT.On("Transcribe", mock.Anything, mock.Anything).Return("hello world", nil)

	svc := newService(t, mockT)
	require.NoError(t, svc.Initialize())

	resp, err := svc.Transcribe(context.Background(), wavRequest())
	require.NoError(t, err)

	assert.Equal(t, "hello world", resp.Text)
	assert.Equal(t, "en", resp.Language)
	assert.GreaterOrEqual(t, resp.ProcessingTime, 0.0)

	// The staged file must have existed while the backend ran.
	require.Len(t, mockT.StagedExisted, 1)
	assert.True(t, mockT.StagedExisted[0])
}

func TestTranscribe_Defaults(t *testing.T) {
	mockT := testutil.NewMockTranscriber()
	mockT.On("Transcribe", mock.Anything, mock.MatchedBy(func(req api.TranscribeRequest) bool {
		return req.Language == service.DefaultLanguage && req.ModelID == service.DefaultModelID
	})).Return("", nil)

	svc := newService(t, mockT)
	require.NoError(t, svc.Initialize())

	resp, err := svc.Transcribe(context.Background(), service.TranscriptionRequest{
		Filename: "test.wav",
		Audio:    []byte{1, 2, 3},
	})
	require.NoError(t, err)

	assert.Equal(t, service.DefaultLanguage, resp.Language)
	mockT.AssertExpectations(t)
}

func TestTranscribe_BackendError(t *testing.T) {
	mockT := testutil.NewMockTranscriber()
	mockT.On("Transcribe", mock.Anything, mock.Anything).Return("", errors.New("decode failed: malformed audio"))

	svc := newService(t, mockT)
	require.NoError(t, svc.Initialize())

	_, err := svc.Transcribe(context.Background(), wavRequest())
	require.Error(t, err)

	apiErr, ok := err.(*apierrors.APIError)
	require.True(t, ok, "expected a typed APIError")
	assert.Equal(t, apierrors.KindTranscriptionFailed, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "malformed audio")
}

func TestTranscribe_TempFilesAlwaysRemoved(t *testing.T) {
	tempDir := t.TempDir()

	mockT := testutil.NewMockTranscriber()
	for i := 0; i < 3; i++ {
		mockT.On("Transcribe", mock.Anything, mock.Anything).Return("ok", nil).Once()
		mockT.On("Transcribe", mock.Anything, mock.Anything).Return("", fmt.Errorf("inference error %d", i)).Once()
	}

	svc := service.New(func() (api.Transcriber, error) {
		return mockT, nil
	}, zap.NewNop()).WithTempDir(tempDir)
	require.NoError(t, svc.Initialize())

	for i := 0; i < 6; i++ {
		_, _ = svc.Transcribe(context.Background(), wavRequest())
	}

	// Every staged file observed by the backend must be gone now.
	for _, p := range mockT.StagedPaths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "staged file %s should be removed", p)
	}

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files may leak, success or failure")
}
