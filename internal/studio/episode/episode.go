// Package episode coordinates one episode run: script acquisition, audio
// assembly and composition, and the final export.
package episode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"podcraft/internal/domain/script"
	"podcraft/internal/domain/studio"
	"podcraft/internal/studio/assemble"
	"podcraft/internal/studio/audio"
	"podcraft/internal/studio/cache"
	"podcraft/internal/studio/draft"
	"podcraft/internal/studio/tts"
)

// ScriptFile is the cached script name inside an episode working directory.
const ScriptFile = "script.json"

// SegmentsDir is the segment cache directory inside a working directory.
const SegmentsDir = "segments"

// Options select what one Produce run does.
type Options struct {
	// Name is the episode name; it becomes the working directory name.
	Name string
	// Format is the export container: wav, mp3 or ogg.
	Format string
	// OnlyScript stops the run after the script is available.
	OnlyScript bool
	// OutputRoot is the directory episode working directories live under.
	OutputRoot string
}

// Result is the outcome of a Produce run. A nil Audio with a non-nil
// AudioErr means the script was produced (and stays cached for a retry) but
// the audio stage failed; callers must not read a bare nil as success.
type Result struct {
	Script     *script.Script
	Audio      *audio.Clip
	OutputPath string
	AudioErr   error
}

// Producer runs episodes against a fixed studio configuration.
type Producer struct {
	cfg          *studio.Config
	drafter      draft.Drafter
	synth        tts.Synthesizer
	log          logrus.FieldLogger
	assembleOpts []assemble.Option
}

// ProducerOption adjusts a Producer.
type ProducerOption func(*Producer)

// WithAssembleOptions forwards options to the assembler, e.g. a test decoder.
func WithAssembleOptions(opts ...assemble.Option) ProducerOption {
	return func(p *Producer) { p.assembleOpts = opts }
}

// NewProducer wires an episode producer.
func NewProducer(cfg *studio.Config, drafter draft.Drafter, synth tts.Synthesizer, log logrus.FieldLogger, opts ...ProducerOption) *Producer {
	p := &Producer{cfg: cfg, drafter: drafter, synth: synth, log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Produce runs one episode end to end.
//
// The script is cached in the working directory: a later run with the same
// name reuses it without touching the drafter. Audio is re-assembled from
// the cached script on every run; cheap repeats come from the segment
// cache, not from skipping the stage.
//
// Failures in the audio stage are contained here: the script stays cached,
// the error is logged and recorded on the result, and no error is returned.
// Everything before the audio stage (config, drafting, filesystem setup)
// fails the run outright.
func (p *Producer) Produce(ctx context.Context, content string, opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = "wav"
	}
	if !audio.ValidFormat(opts.Format) {
		return nil, fmt.Errorf("unsupported export format %q", opts.Format)
	}
	if opts.Name == "" {
		return nil, fmt.Errorf("episode name is required")
	}

	workDir := filepath.Join(opts.OutputRoot, opts.Name)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create working directory %s: %w", workDir, err)
	}

	scr, err := p.acquireScript(ctx, content, workDir)
	if err != nil {
		return nil, err
	}
	result := &Result{Script: scr}

	if opts.OnlyScript {
		p.log.Info("📝  Script ready, skipping audio")
		return result, nil
	}

	p.log.Info("🎙  Recording podcast episode")
	track, err := p.record(ctx, scr, workDir)
	if err != nil {
		p.log.WithError(err).Error("failed to record episode audio")
		result.AudioErr = err
		return result, nil
	}

	outPath := filepath.Join(workDir, "output."+opts.Format)
	p.log.WithField("path", outPath).Info("💾  Exporting podcast")
	if err := audio.Export(track, outPath, opts.Format); err != nil {
		result.AudioErr = err
		return result, nil
	}

	result.Audio = &track
	result.OutputPath = outPath
	p.log.Info("✅  Podcast generation complete")
	return result, nil
}

// acquireScript loads the cached script if one exists, otherwise drafts and
// persists a fresh one.
func (p *Producer) acquireScript(ctx context.Context, content string, workDir string) (*script.Script, error) {
	scriptPath := filepath.Join(workDir, ScriptFile)

	if _, err := os.Stat(scriptPath); err == nil {
		p.log.Info("💬  Loading cached script")
		return script.Load(scriptPath)
	}

	scr, err := p.drafter.Draft(ctx, content, p.cfg)
	if err != nil {
		return nil, err
	}
	if err := scr.Save(scriptPath); err != nil {
		return nil, err
	}
	return scr, nil
}

// record runs the audio stage: assemble ordered clips, compose them into
// one normalized track, and mix the music bed when configured.
func (p *Producer) record(ctx context.Context, scr *script.Script, workDir string) (audio.Clip, error) {
	segCache, err := cache.New(filepath.Join(workDir, SegmentsDir), p.synth, p.log)
	if err != nil {
		return audio.Clip{}, err
	}

	clips, err := assemble.New(segCache, p.log, p.assembleOpts...).Assemble(ctx, scr, p.cfg)
	if err != nil {
		return audio.Clip{}, err
	}

	track, err := audio.Concat(clips)
	if err != nil {
		return audio.Clip{}, err
	}
	track = audio.Normalize(track, audio.NormalizePeak)

	if p.cfg.Music != nil {
		bed, err := audio.LoadBed(p.cfg.Music.Path)
		if err != nil {
			return audio.Clip{}, err
		}
		if track, err = track.WithBed(bed, p.cfg.Music.GainDB); err != nil {
			return audio.Clip{}, err
		}
	}
	return track, nil
}
