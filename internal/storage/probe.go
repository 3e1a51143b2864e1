package storage

import (
	"fmt"
	"strconv"

	"github.com/Jeffail/gabs/v2"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration runs ffprobe on path and returns the container duration.
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbeDuration([]byte(out))
}

// parseProbeDuration reads format.duration from ffprobe's JSON output.
// ffprobe prints the value as a string; a number is accepted too.
func parseProbeDuration(out []byte) (float64, error) {
	parsed, err := gabs.ParseJSON(out)
	if err != nil {
		return 0, fmt.Errorf("invalid ffprobe output: %w", err)
	}

	switch v := parsed.Path("format.duration").Data().(type) {
	case string:
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", v, err)
		}
		return d, nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("ffprobe output has no format.duration")
	}
}
