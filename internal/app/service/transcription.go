package service

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	apierrors "voxtral-server/internal/api/errors"
	"voxtral-server/internal/app/api"
)

// DefaultModelID identifies the pretrained model used when a request
// does not name one.
const DefaultModelID = "mistralai/Voxtral-Mini-3B-2507"

// DefaultLanguage is assumed when a request omits the language field.
const DefaultLanguage = "en"

// TranscriptionRequest is a single transcription call. Audio is owned by
// the request and discarded after processing.
type TranscriptionRequest struct {
	Language string
	ModelID  string
	Filename string
	Audio    []byte
}

// TranscriptionResponse is the result of a successful transcription.
type TranscriptionResponse struct {
	Text           string  `json:"text"`
	Language       string  `json:"language"`
	ProcessingTime float64 `json:"processing_time"`
}

// HealthStatus reflects the current state of the model handle.
type HealthStatus struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	Device       string `json:"device"`
	GPUAvailable bool   `json:"gpu_available"`
}

// BackendFactory builds the Transcriber capability. Construction may be
// expensive (model load, device probing) so it runs once in Initialize.
type BackendFactory func() (api.Transcriber, error)

// TranscriptionService owns the process-wide Transcriber handle. The
// handle is written exactly once by Initialize and is read-only
// afterwards, so request handling needs no locking.
type TranscriptionService struct {
	newBackend  BackendFactory
	logger      *zap.Logger
	tempDir     string
	transcriber api.Transcriber
}

// New creates a TranscriptionService. The handle stays absent until
// Initialize succeeds.
func New(newBackend BackendFactory, logger *zap.Logger) *TranscriptionService {
	return &TranscriptionService{
		newBackend: newBackend,
		logger:     logger,
	}
}

// WithTempDir overrides the directory used to stage per-request audio
// files. The default is the system temp directory.
func (s *TranscriptionService) WithTempDir(dir string) *TranscriptionService {
	s.tempDir = dir
	return s
}

// Initialize acquires the Transcriber capability. Call once at process
// startup, before the HTTP server starts accepting requests. Failure
// leaves the handle absent; the caller decides whether that is fatal.
func (s *TranscriptionService) Initialize() error {
	s.logger.Info("initializing transcription backend")

	t, err := s.newBackend()
	if err != nil {
		s.logger.Error("failed to initialize transcription backend", zap.Error(err))
		return err
	}

	s.transcriber = t
	s.logger.Info("transcription backend ready",
		zap.String("device", t.Device()),
		zap.Bool("gpu_available", t.GPUAvailable()),
	)
	return nil
}

// Health reports the current handle state. It never fails and has no
// side effects.
func (s *TranscriptionService) Health() HealthStatus {
	if s.transcriber == nil {
		return HealthStatus{
			Status:      "unhealthy",
			ModelLoaded: false,
			Device:      "unknown",
		}
	}
	return HealthStatus{
		Status:       "healthy",
		ModelLoaded:  true,
		Device:       s.transcriber.Device(),
		GPUAvailable: s.transcriber.GPUAvailable(),
	}
}

// Transcribe stages the request audio to a temporary file, invokes the
// backend, and returns the transcript with its wall-clock duration. The
// temporary file is removed on every exit path.
func (s *TranscriptionService) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	start := time.Now()

	if s.transcriber == nil {
		s.logger.Error("transcription requested but model not initialized")
		transcriptionsTotal.WithLabelValues("unavailable").Inc()
		return nil, apierrors.NewServiceUnavailableError("Model not loaded. Please check server logs.")
	}

	if req.Language == "" {
		req.Language = DefaultLanguage
	}
	if req.ModelID == "" {
		req.ModelID = DefaultModelID
	}

	s.logger.Info("received transcription request",
		zap.String("filename", req.Filename),
		zap.Int("bytes", len(req.Audio)),
		zap.String("language", req.Language),
		zap.String("model_id", req.ModelID),
	)

	audioPath, err := s.stageAudio(req.Audio)
	if err != nil {
		s.logger.Error("failed to stage audio to temp file", zap.Error(err))
		transcriptionsTotal.WithLabelValues("error").Inc()
		return nil, apierrors.NewTranscriptionFailedError("Transcription failed: " + err.Error())
	}
	defer func() {
		if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove temp audio file",
				zap.String("path", audioPath), zap.Error(err))
		}
	}()

	text, err := s.transcriber.Transcribe(ctx, api.TranscribeRequest{
		Language:  req.Language,
		AudioPath: audioPath,
		ModelID:   req.ModelID,
	})
	if err != nil {
		s.logger.Error("transcription failed",
			zap.String("filename", req.Filename),
			zap.Int("bytes", len(req.Audio)),
			zap.String("language", req.Language),
			zap.String("model_id", req.ModelID),
			zap.Error(err),
		)
		transcriptionsTotal.WithLabelValues("error").Inc()
		return nil, apierrors.NewTranscriptionFailedError("Transcription failed: " + err.Error())
	}

	elapsed := time.Since(start).Seconds()
	transcriptionsTotal.WithLabelValues("success").Inc()
	processingSeconds.Observe(elapsed)

	s.logger.Info("transcription completed",
		zap.String("filename", req.Filename),
		zap.Float64("processing_time", elapsed),
	)

	return &TranscriptionResponse{
		Text:           text,
		Language:       req.Language,
		ProcessingTime: elapsed,
	}, nil
}

// stageAudio writes the uploaded bytes to a scoped temporary file and
// returns its path. The caller removes the file.
func (s *TranscriptionService) stageAudio(audio []byte) (string, error) {
	f, err := os.CreateTemp(s.tempDir, "voxtral-*.wav")
	if err != nil {
		return "", err
	}

	if _, err := f.Write(audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}
