package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// LoadBed decodes a background music file for mixing under the voice track.
func LoadBed(path string) (Clip, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return DecodeMP3File(path)
	case ".wav":
		return DecodeWAVFile(path)
	default:
		return Clip{}, fmt.Errorf("unsupported music format %q (want .mp3 or .wav)", filepath.Ext(path))
	}
}
