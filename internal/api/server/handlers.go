package server

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	apierrors "voxtral-server/internal/api/errors"
	"voxtral-server/internal/api/middleware"
	"voxtral-server/internal/app/audio"
	"voxtral-server/internal/app/service"
)

const rootInfo = `Voxtral Transcription Server v1.0.0

Endpoints:
- GET  /health           - Health check
- POST /transcribe       - Transcribe audio (WAV file)
- POST /transcribe-json  - Transcribe audio, plain JSON result
- GET  /metrics          - Prometheus metrics

Send POST requests to /transcribe with WAV audio data for transcription.`

type transcribeForm struct {
	Language string `form:"language" binding:"omitempty,min=2,max=16"`
	ModelID  string `form:"model_id" binding:"omitempty,max=128"`
}

// handleRoot returns a static plaintext summary of available routes.
func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, rootInfo)
}

// handleHealth maps the service health 1:1 to the response body.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Health())
}

// handleTranscribe returns the full transcription record, with errors in
// the {"detail": ...} shape.
func (s *Server) handleTranscribe(c *gin.Context) {
	resp, apiErr := s.doTranscribe(c)
	if apiErr != nil {
		c.JSON(apiErr.HTTPStatus(), gin.H{"detail": apiErr.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleTranscribeJSON is the reduced variant: {"text"} on success,
// {"error"} otherwise, preserving the status code.
func (s *Server) handleTranscribeJSON(c *gin.Context) {
	resp, apiErr := s.doTranscribe(c)
	if apiErr != nil {
		c.JSON(apiErr.HTTPStatus(), gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": resp.Text})
}

// doTranscribe reads the multipart upload and delegates to the service.
// Both transcription endpoints share it and differ only in response
// shaping.
func (s *Server) doTranscribe(c *gin.Context) (*service.TranscriptionResponse, *apierrors.APIError) {
	var form transcribeForm
	if err := middleware.ValidateForm(c, &form); err != nil {
		return nil, apierrors.FromError(err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, apierrors.NewBadRequestError("multipart field 'file' is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, apierrors.NewBadRequestError("failed to open uploaded file: " + err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apierrors.NewBadRequestError("failed to read uploaded file: " + err.Error())
	}

	// Header-only sanity check for diagnostics. A malformed upload is
	// still forwarded; the backend decides what it can decode.
	if format, err := audio.ParseHeader(bytes.NewReader(data)); err == nil {
		s.logger.Debug("upload parsed",
			zap.String("filename", fileHeader.Filename),
			zap.Int("sample_rate", format.SampleRate),
			zap.Int("channels", format.Channels),
			zap.Int("bits_per_sample", format.BitsPerSample),
			zap.Duration("duration", format.Duration()),
		)
	} else {
		s.logger.Debug("upload is not a parseable WAV",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err),
		)
	}

	language := form.Language
	if language == "" {
		language = c.Query("language")
	}
	modelID := form.ModelID
	if modelID == "" {
		modelID = c.Query("model_id")
	}

	resp, err := s.service.Transcribe(c.Request.Context(), service.TranscriptionRequest{
		Language: language,
		ModelID:  modelID,
		Filename: fileHeader.Filename,
		Audio:    data,
	})
	if err != nil {
		return nil, apierrors.FromError(err)
	}

	return resp, nil
}
