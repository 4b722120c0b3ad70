package services

import (
	"context"
	"fmt"
	"io"
	"time"

	assemblyai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
)

// TranscriptionService turns voice journal recordings into text via
// Assembly AI, so a spoken mood entry can be posted as a journal
// snippet.
type TranscriptionService struct {
	client *assemblyai.Client
	logger *logging.ChanneledLogger
}

// NewTranscriptionService returns nil when no API key is configured;
// callers treat a nil service as the feature being disabled.
func NewTranscriptionService(apiKey string, logger *logging.ChanneledLogger) *TranscriptionService {
	if apiKey == "" {
		return nil
	}
	return &TranscriptionService{
		client: assemblyai.NewClient(apiKey),
		logger: logger,
	}
}

// TranscribeRecording uploads the audio and waits for the transcript.
func (s *TranscriptionService) TranscribeRecording(ctx context.Context, audio io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	transcript, err := s.client.Transcripts.TranscribeFromReader(ctx, audio, nil)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	if transcript.Text == nil {
		return "", fmt.Errorf("transcription returned no text")
	}

	s.logger.Feed().Info("Voice journal transcribed", "chars", len(*transcript.Text))
	return *transcript.Text, nil
}
