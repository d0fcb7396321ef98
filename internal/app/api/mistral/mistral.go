package mistral

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"voxtral-server/internal/app/api"
)

// DefaultBaseURL is Mistral's OpenAI-compatible API endpoint, which
// serves Voxtral models under /v1/audio/transcriptions.
const DefaultBaseURL = "https://api.mistral.ai/v1"

// RemoteTranscriber implements remote transcription against Mistral's
// OpenAI-compatible audio transcription API.
type RemoteTranscriber struct {
	client *openai.Client
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(apiKey, baseURL string) (*RemoteTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("MISTRAL_API_KEY is not set")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &RemoteTranscriber{client: openai.NewClientWithConfig(cfg)}, nil
}

// Transcribe uploads the staged audio file to the remote API.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, req api.TranscribeRequest) (string, error) {
	audioReq := openai.AudioRequest{
		Model:    req.ModelID,
		FilePath: req.AudioPath,
		Language: req.Language,
	}

	resp, err := rt.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return "", fmt.Errorf("createTranscription failed: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// Device returns "api": inference runs on the provider's hardware.
func (rt *RemoteTranscriber) Device() string {
	return "api"
}

// GPUAvailable is always false for remote backends; no local accelerator
// is involved.
func (rt *RemoteTranscriber) GPUAvailable() bool {
	return false
}

var _ api.Transcriber = (*RemoteTranscriber)(nil)
