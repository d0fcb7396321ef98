package voxtral

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
	"voxtral-server/internal/app/api"
)

// LocalTranscriber implements local transcription by shelling out to an
// inference runner binary that wraps the Voxtral model. The runner takes
// the staged audio file as input and prints the transcript on stdout.
type LocalTranscriber struct {
	runnerPath string
	device     string
	gpu        bool
	logger     *zap.Logger
}

// NewLocalTranscriber creates a new LocalTranscriber instance. It fails
// when the runner binary cannot be resolved, so a misconfigured host is
// reported at initialization rather than on the first request.
func NewLocalTranscriber(runnerPath string, logger *zap.Logger) (*LocalTranscriber, error) {
	resolved, err := exec.LookPath(runnerPath)
	if err != nil {
		return nil, fmt.Errorf("inference runner not found: %w", err)
	}

	device, gpu := detectDevice()
	logger.Info("voxtral runner resolved",
		zap.String("runner", resolved),
		zap.String("device", device),
		zap.Bool("gpu_available", gpu),
	)

	return &LocalTranscriber{
		runnerPath: resolved,
		device:     device,
		gpu:        gpu,
		logger:     logger,
	}, nil
}

// Transcribe runs the inference runner on the staged audio file and
// returns the decoded transcript.
func (lt *LocalTranscriber) Transcribe(ctx context.Context, req api.TranscribeRequest) (string, error) {
	if _, err := os.Stat(req.AudioPath); err != nil {
		return "", fmt.Errorf("audio file not readable: %w", err)
	}

	args := []string{
		"--model", req.ModelID,
		"--language", req.Language,
		"--device", lt.device,
		"--file", req.AudioPath,
	}

	command := exec.CommandContext(ctx, lt.runnerPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	lt.logger.Debug("running transcription command",
		zap.String("runner", lt.runnerPath),
		zap.Strings("args", args),
	)

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("command execution error: %v, stderr: %s", err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Device returns the compute target selected at construction time.
func (lt *LocalTranscriber) Device() string {
	return lt.device
}

// GPUAvailable reports whether a CUDA device was detected.
func (lt *LocalTranscriber) GPUAvailable() bool {
	return lt.gpu
}

// detectDevice probes for a usable NVIDIA GPU and falls back to CPU.
func detectDevice() (string, bool) {
	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		return "cpu", false
	}
	if err := exec.Command("nvidia-smi", "-L").Run(); err != nil {
		return "cpu", false
	}
	return "cuda", true
}

var _ api.Transcriber = (*LocalTranscriber)(nil)
