package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"podcraft/internal/domain/studio"
)

const defaultElevenLabsBaseURL = "https://api.elevenlabs.io"

// ElevenLabs synthesizes speech through the ElevenLabs REST API.
type ElevenLabs struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     logrus.FieldLogger
}

// ElevenLabsOption adjusts an ElevenLabs backend.
type ElevenLabsOption func(*ElevenLabs)

// WithElevenLabsBaseURL overrides the API endpoint.
func WithElevenLabsBaseURL(url string) ElevenLabsOption {
	return func(e *ElevenLabs) { e.baseURL = strings.TrimRight(url, "/") }
}

// WithElevenLabsAPIKey overrides the key read from ELEVENLABS_API_KEY.
func WithElevenLabsAPIKey(key string) ElevenLabsOption {
	return func(e *ElevenLabs) { e.apiKey = key }
}

// NewElevenLabs builds the backend. The API key comes from the
// ELEVENLABS_API_KEY environment variable unless overridden.
func NewElevenLabs(log logrus.FieldLogger, opts ...ElevenLabsOption) *ElevenLabs {
	e := &ElevenLabs{
		apiKey:  os.Getenv("ELEVENLABS_API_KEY"),
		baseURL: defaultElevenLabsBaseURL,
		client:  &http.Client{Timeout: 90 * time.Second},
		log:     log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type elevenLabsRequest struct {
	Text          string                   `json:"text"`
	ModelID       string                   `json:"model_id"`
	VoiceSettings *elevenLabsVoiceSettings `json:"voice_settings,omitempty"`
}

// Synthesize requests MP3 audio for the given text and voice.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string, settings studio.SpeakerSettings) ([]byte, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("elevenlabs api key is required (set ELEVENLABS_API_KEY)")
	}

	payload := elevenLabsRequest{
		Text:    text,
		ModelID: settings.VoiceModel,
	}
	if vs := settings.VoiceSettings; vs != nil {
		payload.VoiceSettings = &elevenLabsVoiceSettings{
			Stability:       vs.Stability,
			SimilarityBoost: vs.SimilarityBoost,
			Style:           vs.Style,
			UseSpeakerBoost: vs.SpeakerBoost,
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode elevenlabs request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", e.baseURL, settings.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build elevenlabs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", e.apiKey)

	e.log.WithField("voice", settings.VoiceID).Debug("synthesizing via elevenlabs")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read elevenlabs response: %w", err)
	}
	return audio, nil
}
