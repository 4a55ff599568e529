package audio

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// ExportFormats are the supported final containers.
var ExportFormats = []string{"wav", "mp3", "ogg"}

// ValidFormat reports whether format is a supported export container.
func ValidFormat(format string) bool {
	for _, f := range ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Export writes the track to path in the given container. WAV is encoded
// natively; mp3 and ogg go through ffmpeg.
func Export(c Clip, path, format string) error {
	switch format {
	case "wav":
		return exportWAV(c, path)
	case "mp3", "ogg":
		tmp := path + ".tmp.wav"
		if err := exportWAV(c, tmp); err != nil {
			return err
		}
		defer os.Remove(tmp)
		return transcode(tmp, path)
	default:
		return fmt.Errorf("unsupported export format %q (want one of %s)",
			format, strings.Join(ExportFormats, ", "))
	}
}

func exportWAV(c Clip, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	format := beep.Format{SampleRate: c.Rate(), NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, c.Streamer(), format); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode wav %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func transcode(src, dst string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is required to export %s: %w", dst, err)
	}
	out, err := exec.Command("ffmpeg", "-y", "-loglevel", "error", "-i", src, dst).CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg transcode failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
