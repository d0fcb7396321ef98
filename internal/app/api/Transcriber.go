package api

import "context"

// TranscribeRequest carries everything a backend needs for a single
// transcription call. AudioPath points at a staged temporary file owned
// by the caller.
type TranscribeRequest struct {
	Language  string
	AudioPath string
	ModelID   string
}

// Transcriber defines a transcription interface for converting audio files to text.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscribeRequest) (string, error)

	// Device reports the compute target the backend runs on ("cuda",
	// "cpu", or "api" for remote backends).
	Device() string

	// GPUAvailable reports whether a local accelerator was detected.
	GPUAvailable() bool
}
