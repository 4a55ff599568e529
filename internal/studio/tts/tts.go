package tts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"podcraft/internal/domain/studio"
)

// ErrUnknownProvider marks a speaker configured with a provider tag that no
// backend serves. This is a configuration error: fatal, never retried.
var ErrUnknownProvider = errors.New("unknown tts provider")

// Synthesizer converts one utterance to raw audio bytes.
//
// Implementations perform no retries. Backend failures propagate to the
// caller; retry policy, if any, belongs above the adapter boundary.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, settings studio.SpeakerSettings) ([]byte, error)
}

// Dispatcher routes each synthesis call to the backend named by the
// speaker's provider tag. One backend per tag.
type Dispatcher struct {
	backends map[string]Synthesizer
	log      logrus.FieldLogger
}

// Options configures the stock backends.
type Options struct {
	// OpenAIDelay is the courtesy pause the OpenAI backend takes after each
	// call. It is a backend-specific policy; other backends do not pay it.
	OpenAIDelay time.Duration
}

// NewDispatcher builds a dispatcher with the two stock backends registered.
func NewDispatcher(log logrus.FieldLogger, opts Options) *Dispatcher {
	d := &Dispatcher{
		backends: make(map[string]Synthesizer),
		log:      log,
	}
	d.Register(studio.ProviderElevenLabs, NewElevenLabs(log))
	d.Register(studio.ProviderOpenAI, NewOpenAI(log, opts.OpenAIDelay))
	return d
}

// Register installs a backend for the given provider tag, replacing any
// previous registration.
func (d *Dispatcher) Register(tag string, s Synthesizer) {
	d.backends[tag] = s
}

// Synthesize dispatches on the speaker's provider tag.
func (d *Dispatcher) Synthesize(ctx context.Context, text string, settings studio.SpeakerSettings) ([]byte, error) {
	backend, ok := d.backends[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, settings.Provider)
	}
	return backend.Synthesize(ctx, text, settings)
}
