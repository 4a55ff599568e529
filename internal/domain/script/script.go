package script

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Segment is a single speaker utterance. Segments are read-only inputs to
// the audio pipeline once a script has been drafted.
type Segment struct {
	ID      string `json:"id"`
	Speaker string `json:"speaker"`
	Content string `json:"content"`

	// BlankDuration is optional trailing silence in seconds.
	BlankDuration float64 `json:"blank_duration,omitempty"`
}

// Section is an ordered run of segments. List order is playback order.
type Section struct {
	Segments []Segment `json:"segments"`
}

// Script is the full episode script. Sections play in sorted key order,
// not in the order they were drafted.
type Script struct {
	Sections map[string]Section `json:"sections"`
}

// Cue is one (section, segment) pair in playback order.
type Cue struct {
	SectionID string
	Segment
}

// SectionIDs returns the section identifiers in playback order.
func (s *Script) SectionIDs() []string {
	ids := make([]string, 0, len(s.Sections))
	for id := range s.Sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Flatten expands the script into a single ordered cue sequence: sections in
// sorted key order, segments in list order within each section.
func (s *Script) Flatten() []Cue {
	var cues []Cue
	for _, sectionID := range s.SectionIDs() {
		for _, seg := range s.Sections[sectionID].Segments {
			cues = append(cues, Cue{SectionID: sectionID, Segment: seg})
		}
	}
	return cues
}

// Validate checks segment fields and resolves every speaker reference against
// knownSpeaker. A failed lookup is a configuration error, so it surfaces
// before any synthesis work starts.
func (s *Script) Validate(knownSpeaker func(id string) bool) error {
	if len(s.Sections) == 0 {
		return fmt.Errorf("script has no sections")
	}
	for _, sectionID := range s.SectionIDs() {
		section := s.Sections[sectionID]
		if len(section.Segments) == 0 {
			return fmt.Errorf("section %q has no segments", sectionID)
		}
		for _, seg := range section.Segments {
			if seg.ID == "" {
				return fmt.Errorf("section %q contains a segment without an id", sectionID)
			}
			if seg.Content == "" {
				return fmt.Errorf("segment %s/%s has no content", sectionID, seg.ID)
			}
			if seg.BlankDuration < 0 {
				return fmt.Errorf("segment %s/%s has negative blank duration", sectionID, seg.ID)
			}
			if !knownSpeaker(seg.Speaker) {
				return fmt.Errorf("segment %s/%s references unknown speaker %q", sectionID, seg.ID, seg.Speaker)
			}
		}
	}
	return nil
}

// Parse decodes a script from JSON.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &s, nil
}

// Load reads a cached script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return Parse(data)
}

// Save writes the script as JSON.
func (s *Script) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode script: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write script %s: %w", path, err)
	}
	return nil
}
