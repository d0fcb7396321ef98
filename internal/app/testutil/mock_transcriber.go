package testutil

import (
	"context"
	"os"
	"sync"

	"github.com/stretchr/testify/mock"
	"voxtral-server/internal/app/api"
)

// MockTranscriber is a testify-based mock of the api.Transcriber
// interface. It additionally records every staged audio path it saw and
// whether that file existed during the call, which the temp-file cleanup
// tests rely on.
type MockTranscriber struct {
	mock.Mock
	mu sync.Mutex

	DeviceName string
	GPU        bool

	// StagedPaths collects req.AudioPath per call.
	StagedPaths []string
	// StagedExisted records os.Stat success on the path during the call.
	StagedExisted []bool
}

// NewMockTranscriber creates a mock reporting a CPU device.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{DeviceName: "cpu"}
}

// Transcribe implements api.Transcriber.
func (m *MockTranscriber) Transcribe(ctx context.Context, req api.TranscribeRequest) (string, error) {
	m.mu.Lock()
	m.StagedPaths = append(m.StagedPaths, req.AudioPath)
	_, statErr := os.Stat(req.AudioPath)
	m.StagedExisted = append(m.StagedExisted, statErr == nil)
	m.mu.Unlock()

	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// Device implements api.Transcriber.
func (m *MockTranscriber) Device() string {
	return m.DeviceName
}

// GPUAvailable implements api.Transcriber.
func (m *MockTranscriber) GPUAvailable() bool {
	return m.GPU
}

// LastStagedPath returns the audio path of the most recent call.
func (m *MockTranscriber) LastStagedPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.StagedPaths) == 0 {
		return ""
	}
	return m.StagedPaths[len(m.StagedPaths)-1]
}

var _ api.Transcriber = (*MockTranscriber)(nil)
