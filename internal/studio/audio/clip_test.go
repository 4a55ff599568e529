package audio

import (
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constClip(rate beep.SampleRate, n int, level float64) Clip {
	samples := make([][2]float64, n)
	for i := range samples {
		samples[i] = [2]float64{level, level}
	}
	return New(rate, samples)
}

func TestSilenceDuration(t *testing.T) {
	c := Silence(2500*time.Millisecond, 44100)

	assert.Equal(t, 2500*time.Millisecond, c.Duration())
	for _, s := range c.samples {
		assert.Zero(t, s[0])
		assert.Zero(t, s[1])
	}
}

func TestConcatPreservesOrder(t *testing.T) {
	a := constClip(44100, 10, 0.1)
	b := constClip(44100, 20, 0.2)
	c := constClip(44100, 30, 0.3)

	out, err := Concat([]Clip{a, b, c})
	require.NoError(t, err)

	require.Equal(t, 60, out.Len())
	assert.Equal(t, 0.1, out.samples[0][0])
	assert.Equal(t, 0.1, out.samples[9][0])
	assert.Equal(t, 0.2, out.samples[10][0])
	assert.Equal(t, 0.2, out.samples[29][0])
	assert.Equal(t, 0.3, out.samples[30][0])
	assert.Equal(t, 0.3, out.samples[59][0])
}

func TestConcatEmptyIsZeroDurationTrack(t *testing.T) {
	out, err := Concat(nil)
	require.NoError(t, err)

	assert.Zero(t, out.Len())
	assert.Zero(t, out.Duration())
	assert.Equal(t, DefaultSampleRate, out.Rate())
}

func TestConcatResamplesMismatchedRates(t *testing.T) {
	a := constClip(44100, 4410, 0.5)
	b := constClip(22050, 2205, 0.5) // also 100ms

	out, err := Concat([]Clip{a, b})
	require.NoError(t, err)

	assert.Equal(t, beep.SampleRate(44100), out.Rate())
	assert.InDelta(t, 200, out.Duration().Milliseconds(), 5)
}

func TestNormalizeScalesToTargetPeak(t *testing.T) {
	c := New(44100, [][2]float64{{0.5, -0.25}, {0.1, 0.0}})

	out := Normalize(c, 0.97)

	assert.InDelta(t, 0.97, out.samples[0][0], 1e-9)
	assert.InDelta(t, -0.485, out.samples[0][1], 1e-9)
	// Input clip is untouched.
	assert.Equal(t, 0.5, c.samples[0][0])
}

func TestNormalizeSilentTrackUnchanged(t *testing.T) {
	c := Silence(time.Second, 44100)

	out := Normalize(c, 0.97)

	assert.Equal(t, c.Len(), out.Len())
	assert.Zero(t, out.samples[0][0])
}

func TestStreamerRoundTrip(t *testing.T) {
	c := constClip(44100, 1000, 0.7)

	back, err := Drain(c.Streamer(), c.Rate())
	require.NoError(t, err)

	assert.Equal(t, c.samples, back.samples)
}

func TestWithBedMixesQuietLoop(t *testing.T) {
	voice := constClip(44100, 100, 0.5)
	bed := constClip(44100, 30, 1.0)

	out, err := voice.WithBed(bed, -20)
	require.NoError(t, err)

	// Bed is truncated/looped to the voice length.
	require.Equal(t, voice.Len(), out.Len())
	// -20 dB is a gain of 0.1.
	assert.InDelta(t, 0.6, out.samples[0][0], 1e-9)
	assert.InDelta(t, 0.6, out.samples[99][0], 1e-9)
}

func TestWithBedClampsOverdrive(t *testing.T) {
	voice := constClip(44100, 10, 0.9)
	bed := constClip(44100, 10, 1.0)

	out, err := voice.WithBed(bed, 0)
	require.NoError(t, err)

	assert.Equal(t, 1.0, out.samples[0][0])
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("wav"))
	assert.True(t, ValidFormat("mp3"))
	assert.True(t, ValidFormat("ogg"))
	assert.False(t, ValidFormat("flac"))
}
