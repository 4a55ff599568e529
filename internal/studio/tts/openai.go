package tts

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/openai/openai-go"
	"github.com/sirupsen/logrus"

	"podcraft/internal/domain/studio"
)

// OpenAI synthesizes speech through the OpenAI audio API. The client reads
// OPENAI_API_KEY from the environment.
type OpenAI struct {
	client openai.Client
	delay  time.Duration
	log    logrus.FieldLogger
}

// NewOpenAI builds the backend. delay is the post-call courtesy pause; the
// rate limits on the speech endpoint are tight enough that hammering it
// back-to-back gets whole batches rejected.
func NewOpenAI(log logrus.FieldLogger, delay time.Duration) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(),
		delay:  delay,
		log:    log,
	}
}

// Synthesize requests MP3 audio for the given text and voice.
func (o *OpenAI) Synthesize(ctx context.Context, text string, settings studio.SpeakerSettings) ([]byte, error) {
	o.log.WithField("voice", settings.VoiceID).Debug("synthesizing via openai")

	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(settings.VoiceModel),
		Voice:          openai.AudioSpeechNewParamsVoice(settings.VoiceID),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech request failed: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read openai speech response: %w", err)
	}

	if o.delay > 0 {
		time.Sleep(o.delay)
	}
	return audio, nil
}
