// Package assemble walks a script in playback order and resolves every
// segment to an audio clip. It produces ordered parts; composing them into
// one track belongs to the audio package.
package assemble

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"podcraft/internal/domain/script"
	"podcraft/internal/domain/studio"
	"podcraft/internal/studio/audio"
	"podcraft/internal/studio/cache"
)

// Assembler turns a script into an ordered clip list using the segment
// cache for synthesis.
type Assembler struct {
	cache  *cache.Cache
	log    logrus.FieldLogger
	decode func(path string) (audio.Clip, error)
}

// Option adjusts an Assembler.
type Option func(*Assembler)

// WithDecoder replaces the segment file decoder.
func WithDecoder(decode func(path string) (audio.Clip, error)) Option {
	return func(a *Assembler) { a.decode = decode }
}

// New builds an assembler over the given segment cache.
func New(c *cache.Cache, log logrus.FieldLogger, opts ...Option) *Assembler {
	a := &Assembler{
		cache:  c,
		log:    log,
		decode: audio.DecodeMP3File,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble resolves every segment, in playback order, to a clip. Segments
// with a blank duration get a silence clip of that exact length appended
// right after their speech clip. The returned sequence is not concatenated
// or normalized here.
//
// Every speaker reference is checked against the roster up front, so a
// misconfigured script aborts before any synthesis happens.
func (a *Assembler) Assemble(ctx context.Context, scr *script.Script, cfg *studio.Config) ([]audio.Clip, error) {
	if err := scr.Validate(cfg.HasSpeaker); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	cues := scr.Flatten()
	clips := make([]audio.Clip, 0, len(cues))

	a.log.WithField("segments", len(cues)).Info("🎧  Generating audio segments")

	for _, cue := range cues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		speaker, err := cfg.Speaker(cue.Speaker)
		if err != nil {
			return nil, err
		}

		path, err := a.cache.Resolve(ctx, cue.SectionID, cue.Segment, speaker)
		if err != nil {
			return nil, err
		}

		clip, err := a.decode(path)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)

		if cue.BlankDuration > 0 {
			pause := time.Duration(cue.BlankDuration * float64(time.Second))
			clips = append(clips, audio.Silence(pause, clip.Rate()))
		}
	}

	return clips, nil
}
