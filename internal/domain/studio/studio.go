package studio

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Provider tags for the supported synthesis backends. Dispatch happens per
// speaker, so a single script may mix providers.
const (
	ProviderElevenLabs = "elevenlabs"
	ProviderOpenAI     = "openai"
)

const (
	defaultVoiceModel = "eleven_multilingual_v2"
)

// VoiceSettings are the fine-grained voice parameters understood by the
// ElevenLabs backend. All sliders are bounded in [0, 1].
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	SpeakerBoost    bool    `json:"speaker_boost"`
}

func (v *VoiceSettings) validate() error {
	for name, value := range map[string]float64{
		"stability":        v.Stability,
		"similarity_boost": v.SimilarityBoost,
		"style":            v.Style,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("voice setting %s must be in [0, 1], got %v", name, value)
		}
	}
	return nil
}

// SpeakerSettings selects a voice for one speaker.
type SpeakerSettings struct {
	VoiceID       string         `json:"voice_id"`
	Provider      string         `json:"provider,omitempty"`
	VoiceModel    string         `json:"voice_model,omitempty"`
	VoiceSettings *VoiceSettings `json:"voice_settings,omitempty"`
}

// Speaker is one member of the show's roster.
type Speaker struct {
	Name     string          `json:"name"`
	About    string          `json:"about"`
	Settings SpeakerSettings `json:"settings"`
}

// Show holds the episode-independent show metadata.
type Show struct {
	Name     string `json:"name"`
	About    string `json:"about"`
	Language string `json:"language"`
}

// Music configures an optional background bed mixed under the voice track.
type Music struct {
	Path   string  `json:"path"`
	GainDB float64 `json:"gain_db"`
}

// Config is the studio configuration: show metadata plus the speaker roster.
// Loaded once per episode and immutable for the run.
type Config struct {
	Show     Show               `json:"show"`
	Speakers map[string]Speaker `json:"speakers"`
	Music    *Music             `json:"music,omitempty"`
}

// Load reads and strictly validates a studio configuration file. Unknown
// fields are rejected so typos in a config fail loudly instead of being
// silently ignored.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open studio config %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse studio config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid studio config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Show.Name == "" {
		return fmt.Errorf("show name is required")
	}
	if c.Show.Language == "" {
		return fmt.Errorf("show language is required")
	}
	if len(c.Speakers) == 0 {
		return fmt.Errorf("at least one speaker is required")
	}
	for id, sp := range c.Speakers {
		if sp.Name == "" {
			return fmt.Errorf("speaker %q has no name", id)
		}
		if sp.Settings.VoiceID == "" {
			return fmt.Errorf("speaker %q has no voice_id", id)
		}
		if sp.Settings.Provider == "" {
			sp.Settings.Provider = ProviderElevenLabs
		}
		switch sp.Settings.Provider {
		case ProviderElevenLabs, ProviderOpenAI:
		default:
			return fmt.Errorf("speaker %q has unknown provider %q", id, sp.Settings.Provider)
		}
		if sp.Settings.VoiceModel == "" {
			sp.Settings.VoiceModel = defaultVoiceModel
		}
		if sp.Settings.VoiceSettings != nil {
			if err := sp.Settings.VoiceSettings.validate(); err != nil {
				return fmt.Errorf("speaker %q: %w", id, err)
			}
		}
		c.Speakers[id] = sp
	}
	if c.Music != nil && c.Music.Path == "" {
		return fmt.Errorf("music path is required when a music section is present")
	}
	return nil
}

// HasSpeaker reports whether the roster contains the given speaker id.
func (c *Config) HasSpeaker(id string) bool {
	_, ok := c.Speakers[id]
	return ok
}

// Speaker resolves a speaker id against the roster.
func (c *Config) Speaker(id string) (Speaker, error) {
	sp, ok := c.Speakers[id]
	if !ok {
		return Speaker{}, fmt.Errorf("unknown speaker %q", id)
	}
	return sp, nil
}

// SpeakerIDs returns the roster ids in stable order.
func (c *Config) SpeakerIDs() []string {
	ids := make([]string, 0, len(c.Speakers))
	for id := range c.Speakers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ShowInfo renders the show metadata for prompt building.
func (c *Config) ShowInfo() string {
	return fmt.Sprintf("Show:\n\tName: %s\n\tAbout: %s\n\tLanguage: %s",
		c.Show.Name, c.Show.About, c.Show.Language)
}

// SpeakersInfo renders the speaker roster for prompt building.
func (c *Config) SpeakersInfo() string {
	var b strings.Builder
	for _, id := range c.SpeakerIDs() {
		sp := c.Speakers[id]
		fmt.Fprintf(&b, "%s:\n\tName: %s\n\tAbout: %s\n", id, sp.Name, sp.About)
	}
	return strings.TrimRight(b.String(), "\n")
}
