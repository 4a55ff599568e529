// Package cache maps script segments to synthesized audio files on disk.
//
// Each distinct segment version accumulates its own file; nothing is ever
// evicted. That trades storage for reproducibility: editing one segment's
// text invalidates only that segment's entry.
package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"podcraft/internal/domain/script"
	"podcraft/internal/domain/studio"
	"podcraft/internal/studio/tts"
)

// cleaner strips punctuation the synthesis voices mispronounce. Cleaning
// runs before fingerprinting, so cache keys are stable across edits that
// only touch these marks.
var cleaner = strings.NewReplacer("¡", "", "¿", "")

// CleanText returns the segment text as it is sent to synthesis.
func CleanText(text string) string {
	return cleaner.Replace(text)
}

// Cache resolves segments to audio files under a single directory.
type Cache struct {
	dir   string
	synth tts.Synthesizer
	log   logrus.FieldLogger
}

// New opens a segment cache rooted at dir, creating it if absent.
func New(dir string, synth tts.Synthesizer, log logrus.FieldLogger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create segment cache dir %s: %w", dir, err)
	}
	return &Cache{dir: dir, synth: synth, log: log}, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Key builds the cache file name for a segment: section id, segment id and
// the md5 fingerprint of the cleaned text.
func (c *Cache) Key(sectionID string, seg script.Segment) string {
	sum := md5.Sum([]byte(CleanText(seg.Content)))
	return fmt.Sprintf("%s_%s_%x.mp3", sectionID, seg.ID, sum)
}

// Resolve returns the path of the audio file for the given segment,
// synthesizing and persisting it on a miss. A hit makes no synthesis call.
// If synthesis fails, no cache entry is written and the error propagates.
func (c *Cache) Resolve(ctx context.Context, sectionID string, seg script.Segment, speaker studio.Speaker) (string, error) {
	path := filepath.Join(c.dir, c.Key(sectionID, seg))

	if _, err := os.Stat(path); err == nil {
		c.log.WithField("segment", sectionID+"/"+seg.ID).Debug("segment cache hit")
		return path, nil
	}

	text := CleanText(seg.Content)
	c.log.WithFields(logrus.Fields{
		"segment": sectionID + "/" + seg.ID,
		"speaker": seg.Speaker,
	}).Info("🎙  Synthesizing segment")

	audio, err := c.synth.Synthesize(ctx, text, speaker.Settings)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize segment %s/%s: %w", sectionID, seg.ID, err)
	}

	// Write-then-rename so a failure mid-write never leaves a partial
	// entry behind to be mistaken for a hit.
	tmp, err := os.CreateTemp(c.dir, ".segment-*")
	if err != nil {
		return "", fmt.Errorf("failed to create cache temp file: %w", err)
	}
	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to place cache entry %s: %w", path, err)
	}
	return path, nil
}

// Stats summarizes the cache directory contents.
type Stats struct {
	Dir        string
	Entries    int
	TotalBytes int64
}

// Stat walks the cache directory and counts the stored segments.
func Stat(dir string) (Stats, error) {
	stats := Stats{Dir: dir}
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".mp3") {
			stats.Entries++
			stats.TotalBytes += info.Size()
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return stats, err
	}
	return stats, nil
}

// Clear removes every cached segment under dir.
func Clear(dir string) error {
	return os.RemoveAll(dir)
}
