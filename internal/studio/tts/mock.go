package tts

import (
	"context"
	"sync"

	"podcraft/internal/domain/studio"
)

// Mock is a Synthesizer for tests and dry runs. It records every call and
// returns deterministic bytes derived from the input text.
type Mock struct {
	mu    sync.Mutex
	calls []string

	// Err, when set, is returned by every call.
	Err error

	// Generate overrides the default output bytes.
	Generate func(text string, settings studio.SpeakerSettings) []byte
}

// Synthesize records the call and returns fake audio bytes.
func (m *Mock) Synthesize(_ context.Context, text string, settings studio.SpeakerSettings) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Generate != nil {
		return m.Generate(text, settings), nil
	}
	return []byte("audio:" + settings.VoiceID + ":" + text), nil
}

// Calls returns the number of synthesis calls so far.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Texts returns the synthesized texts in call order.
func (m *Mock) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
