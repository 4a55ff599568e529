package draft

import (
	"fmt"
	"strings"
	"text/template"

	"podcraft/internal/domain/studio"
)

// scriptPrompt instructs the model to answer with the exact script.json
// shape the audio pipeline consumes.
const scriptPrompt = `You are the head script writer of the podcast described below.
Write a complete episode script discussing the content the user provides.

{{.ShowInfo}}

Speakers:
{{.SpeakersInfo}}

Write the whole script in {{.Language}}.

Respond with a single JSON object of this shape and nothing else:

{
  "sections": {
    "<two-digit section number, e.g. \"01\">": {
      "segments": [
        {
          "id": "<unique id within the section>",
          "speaker": "<one of: {{.SpeakerIDs}}>",
          "content": "<exact words to speak>",
          "blank_duration": <optional trailing pause in seconds>
        }
      ]
    }
  }
}

Section keys play in sorted order. Keep segments conversational and short,
alternate speakers naturally, and use blank_duration sparingly for dramatic
pauses. Every speaker id must come from the roster above.`

var promptTemplate = template.Must(template.New("script").Parse(scriptPrompt))

func renderPrompt(cfg *studio.Config) (string, error) {
	var b strings.Builder
	err := promptTemplate.Execute(&b, struct {
		ShowInfo     string
		SpeakersInfo string
		Language     string
		SpeakerIDs   string
	}{
		ShowInfo:     cfg.ShowInfo(),
		SpeakersInfo: cfg.SpeakersInfo(),
		Language:     cfg.Show.Language,
		SpeakerIDs:   strings.Join(cfg.SpeakerIDs(), ", "),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render script prompt: %w", err)
	}
	return b.String(), nil
}
