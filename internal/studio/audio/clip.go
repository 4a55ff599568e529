// Package audio holds the in-memory clip type and the composition pass that
// turns an ordered clip list into the final episode track.
package audio

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// DefaultSampleRate is used for tracks that have no source material to
// inherit a rate from (an empty episode still composes to a valid track).
const DefaultSampleRate = beep.SampleRate(44100)

// NormalizePeak is the target peak level of the final loudness pass.
const NormalizePeak = 0.97

// Clip is an owned buffer of stereo samples at a known rate. Concatenation
// consumes inputs and produces a new owned clip; clips are never shared
// mutably between pipeline stages.
type Clip struct {
	rate    beep.SampleRate
	samples [][2]float64
}

// New builds a clip from raw stereo samples.
func New(rate beep.SampleRate, samples [][2]float64) Clip {
	return Clip{rate: rate, samples: samples}
}

// Rate returns the clip's sample rate.
func (c Clip) Rate() beep.SampleRate {
	if c.rate == 0 {
		return DefaultSampleRate
	}
	return c.rate
}

// Len returns the number of samples.
func (c Clip) Len() int {
	return len(c.samples)
}

// Duration returns the clip length as wall-clock time.
func (c Clip) Duration() time.Duration {
	return c.Rate().D(len(c.samples))
}

// Streamer returns a one-shot streamer over the clip's samples.
func (c Clip) Streamer() beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(c.samples) {
			return 0, false
		}
		n := copy(samples, c.samples[pos:])
		pos += n
		return n, true
	})
}

// Silence returns a clip of zero samples with the exact given duration.
func Silence(d time.Duration, rate beep.SampleRate) Clip {
	if rate == 0 {
		rate = DefaultSampleRate
	}
	return Clip{rate: rate, samples: make([][2]float64, rate.N(d))}
}

// Drain collects every sample a streamer produces into a clip.
func Drain(s beep.Streamer, rate beep.SampleRate) (Clip, error) {
	clip := Clip{rate: rate}
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		clip.samples = append(clip.samples, buf[:n]...)
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return Clip{}, fmt.Errorf("failed to stream audio: %w", err)
	}
	return clip, nil
}

// Resampled converts the clip to the target rate.
func (c Clip) Resampled(rate beep.SampleRate) (Clip, error) {
	if c.Rate() == rate || c.Len() == 0 {
		return Clip{rate: rate, samples: c.samples}, nil
	}
	return Drain(beep.Resample(4, c.Rate(), rate, c.Streamer()), rate)
}

// DecodeMP3File decodes a cached segment file into a clip.
func DecodeMP3File(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to open audio file %s: %w", path, err)
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return Clip{}, fmt.Errorf("failed to decode mp3 %s: %w", path, err)
	}
	defer streamer.Close()
	return Drain(streamer, format.SampleRate)
}

// DecodeWAVFile decodes a WAV file into a clip.
func DecodeWAVFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to open audio file %s: %w", path, err)
	}
	defer f.Close()
	streamer, format, err := wav.Decode(f)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to decode wav %s: %w", path, err)
	}
	defer streamer.Close()
	return Drain(streamer, format.SampleRate)
}

// Concat joins clips strictly in the given order with no added gap. Clips at
// a different rate than the first are resampled to match. An empty list
// yields a zero-duration track.
func Concat(clips []Clip) (Clip, error) {
	if len(clips) == 0 {
		return Clip{rate: DefaultSampleRate}, nil
	}
	out := Clip{rate: clips[0].Rate()}
	for _, c := range clips {
		c, err := c.Resampled(out.rate)
		if err != nil {
			return Clip{}, err
		}
		out.samples = append(out.samples, c.samples...)
	}
	return out, nil
}

// Normalize scales the whole track so its peak hits the target level. This
// is a single global pass over the finished episode, not per segment. Silent
// tracks come back unchanged.
func Normalize(c Clip, target float64) Clip {
	peak := 0.0
	for _, s := range c.samples {
		peak = math.Max(peak, math.Max(math.Abs(s[0]), math.Abs(s[1])))
	}
	if peak == 0 {
		return c
	}
	gain := target / peak
	out := Clip{rate: c.rate, samples: make([][2]float64, len(c.samples))}
	for i, s := range c.samples {
		out.samples[i] = [2]float64{s[0] * gain, s[1] * gain}
	}
	return out
}

// WithBed mixes a background music clip under the track at the given gain
// (in dB, typically negative). The bed is resampled to the track's rate and
// looped or truncated to the track's exact length.
func (c Clip) WithBed(bed Clip, gainDB float64) (Clip, error) {
	if c.Len() == 0 || bed.Len() == 0 {
		return c, nil
	}
	bed, err := bed.Resampled(c.Rate())
	if err != nil {
		return Clip{}, err
	}
	gain := math.Pow(10, gainDB/20)
	out := Clip{rate: c.rate, samples: make([][2]float64, len(c.samples))}
	for i, s := range c.samples {
		b := bed.samples[i%len(bed.samples)]
		out.samples[i] = [2]float64{
			clamp(s[0] + b[0]*gain),
			clamp(s[1] + b[1]*gain),
		}
	}
	return out, nil
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
