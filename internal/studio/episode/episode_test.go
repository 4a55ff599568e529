package episode

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcraft/internal/domain/script"
	"podcraft/internal/domain/studio"
	"podcraft/internal/studio/assemble"
	"podcraft/internal/studio/audio"
	"podcraft/internal/studio/tts"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type stubDrafter struct {
	scr   *script.Script
	err   error
	calls int
}

func (d *stubDrafter) Draft(context.Context, string, *studio.Config) (*script.Script, error) {
	d.calls++
	return d.scr, d.err
}

func byteLenDecoder(path string) (audio.Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return audio.Clip{}, err
	}
	return audio.New(44100, make([][2]float64, len(data))), nil
}

func testConfig() *studio.Config {
	return &studio.Config{
		Show: studio.Show{Name: "Test Show", Language: "en"},
		Speakers: map[string]studio.Speaker{
			"host":  {Name: "Host", Settings: studio.SpeakerSettings{VoiceID: "v-host", Provider: studio.ProviderElevenLabs}},
			"guest": {Name: "Guest", Settings: studio.SpeakerSettings{VoiceID: "v-guest", Provider: studio.ProviderOpenAI}},
		},
	}
}

func testScript() *script.Script {
	return &script.Script{Sections: map[string]script.Section{
		"01": {Segments: []script.Segment{
			{ID: "s1", Speaker: "host", Content: "welcome everyone", BlankDuration: 1},
			{ID: "s2", Speaker: "guest", Content: "glad to be here"},
		}},
	}}
}

func newProducer(drafter *stubDrafter, synth tts.Synthesizer) *Producer {
	return NewProducer(testConfig(), drafter, synth, testLogger(),
		WithAssembleOptions(assemble.WithDecoder(byteLenDecoder)))
}

func TestProduceFullRun(t *testing.T) {
	root := t.TempDir()
	drafter := &stubDrafter{scr: testScript()}
	p := newProducer(drafter, &tts.Mock{})

	result, err := p.Produce(context.Background(), "the content", Options{
		Name:       "ep1",
		Format:     "wav",
		OutputRoot: root,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Audio)
	assert.NoError(t, result.AudioErr)
	assert.Equal(t, 1, drafter.calls)
	assert.FileExists(t, filepath.Join(root, "ep1", ScriptFile))
	assert.FileExists(t, filepath.Join(root, "ep1", "output.wav"))
	assert.Equal(t, filepath.Join(root, "ep1", "output.wav"), result.OutputPath)
	assert.Greater(t, result.Audio.Len(), 0)
}

func TestProduceOnlyScriptSkipsAudio(t *testing.T) {
	root := t.TempDir()
	mock := &tts.Mock{}
	p := newProducer(&stubDrafter{scr: testScript()}, mock)

	result, err := p.Produce(context.Background(), "content", Options{
		Name:       "ep1",
		OnlyScript: true,
		OutputRoot: root,
	})
	require.NoError(t, err)

	assert.NotNil(t, result.Script)
	assert.Nil(t, result.Audio)
	assert.NoError(t, result.AudioErr)
	assert.Zero(t, mock.Calls())
	assert.FileExists(t, filepath.Join(root, "ep1", ScriptFile))
	assert.NoFileExists(t, filepath.Join(root, "ep1", "output.wav"))
}

func TestProduceReusesCachedScript(t *testing.T) {
	root := t.TempDir()
	drafter := &stubDrafter{scr: testScript()}
	p := newProducer(drafter, &tts.Mock{})

	_, err := p.Produce(context.Background(), "content", Options{Name: "ep1", OnlyScript: true, OutputRoot: root})
	require.NoError(t, err)
	require.Equal(t, 1, drafter.calls)

	// Second run loads script.json instead of drafting again.
	drafter.err = errors.New("drafter must not be called")
	result, err := p.Produce(context.Background(), "content", Options{Name: "ep1", OnlyScript: true, OutputRoot: root})
	require.NoError(t, err)

	assert.Equal(t, 1, drafter.calls)
	assert.Equal(t, testScript(), result.Script)
}

func TestProduceContainsAudioStageFailure(t *testing.T) {
	root := t.TempDir()
	drafter := &stubDrafter{scr: testScript()}
	failing := &tts.Mock{Err: errors.New("backend down")}
	p := newProducer(drafter, failing)

	result, err := p.Produce(context.Background(), "content", Options{Name: "ep1", OutputRoot: root})
	require.NoError(t, err, "audio-stage failures are contained, not propagated")

	require.NotNil(t, result)
	assert.Nil(t, result.Audio)
	require.Error(t, result.AudioErr)
	assert.Contains(t, result.AudioErr.Error(), "backend down")

	// The script survived the failure and is still loadable.
	scr, err := script.Load(filepath.Join(root, "ep1", ScriptFile))
	require.NoError(t, err)
	assert.Equal(t, testScript(), scr)

	// Retry with a healthy backend reuses the cached script and succeeds.
	healthy := newProducer(drafter, &tts.Mock{})
	result, err = healthy.Produce(context.Background(), "content", Options{Name: "ep1", OutputRoot: root})
	require.NoError(t, err)
	assert.Equal(t, 1, drafter.calls)
	assert.NotNil(t, result.Audio)
	assert.NoError(t, result.AudioErr)
}

func TestProduceDispatchesPerSpeakerProvider(t *testing.T) {
	root := t.TempDir()
	mockA := &tts.Mock{}
	mockB := &tts.Mock{}

	d := tts.NewDispatcher(testLogger(), tts.Options{})
	d.Register(studio.ProviderElevenLabs, mockA)
	d.Register(studio.ProviderOpenAI, mockB)

	p := newProducer(&stubDrafter{scr: testScript()}, d)

	result, err := p.Produce(context.Background(), "content", Options{Name: "ep1", OutputRoot: root})
	require.NoError(t, err)
	require.NotNil(t, result.Audio)

	assert.Equal(t, 1, mockA.Calls(), "host segment goes to provider A only")
	assert.Equal(t, 1, mockB.Calls(), "guest segment goes to provider B only")
	assert.Equal(t, []string{"welcome everyone"}, mockA.Texts())
	assert.Equal(t, []string{"glad to be here"}, mockB.Texts())
}

func TestProduceRerunRebuildsAudioCheaply(t *testing.T) {
	root := t.TempDir()
	drafter := &stubDrafter{scr: testScript()}
	mock := &tts.Mock{}
	p := newProducer(drafter, mock)

	_, err := p.Produce(context.Background(), "content", Options{Name: "ep1", OutputRoot: root})
	require.NoError(t, err)
	require.Equal(t, 2, mock.Calls())

	// Re-running re-assembles from the cached script; the segment cache
	// keeps it cheap, not an episode-level short circuit.
	result, err := p.Produce(context.Background(), "content", Options{Name: "ep1", OutputRoot: root})
	require.NoError(t, err)

	assert.Equal(t, 1, drafter.calls)
	assert.Equal(t, 2, mock.Calls())
	assert.NotNil(t, result.Audio)
}

func TestProduceValidatesOptions(t *testing.T) {
	p := newProducer(&stubDrafter{scr: testScript()}, &tts.Mock{})

	_, err := p.Produce(context.Background(), "content", Options{Name: "ep1", Format: "flac", OutputRoot: t.TempDir()})
	assert.Error(t, err)

	_, err = p.Produce(context.Background(), "content", Options{Format: "wav", OutputRoot: t.TempDir()})
	assert.Error(t, err)
}
