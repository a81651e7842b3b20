package ytdlp

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Container and template constants
const (
	VideoContainer  = "mp4"
	AudioContainer  = "mp3"
	DefaultTemplate = "%(title)s.%(ext)s"

	// Network resilience flags tuned for unstable connections
	downloadRetries = "10"
	fragmentRetries = "10"
	bufferSize      = "16K"
	httpChunkSize   = "10M"

	// Fallback height cap when the quality string cannot be parsed
	defaultHeightCap = 1080

	// Default audio quality when the map has no entry (yt-dlp VBR scale)
	defaultAudioQuality = "5"
)

// audioQualityByBitrate maps the client bitrate enum to yt-dlp's 0-9 VBR
// scale, 0 being the best.
var audioQualityByBitrate = map[string]string{
	"64k":  "6",
	"128k": "4",
	"192k": "2",
	"320k": "0",
}

// Choice carries the per-item variant resolution from the start command.
// A nil VariantID means no explicit choice and the generic selector applies.
type Choice struct {
	VariantID string
	HasVideo  bool
	HasAudio  bool
	Ext       string
}

// Request describes everything needed to build the argument list for one
// download task.
type Request struct {
	Audio     bool   // audio-only target
	Quality   string // "64k".."320k" for audio, "360p".."2160p" for video
	Fragments int    // per-task fragment parallelism
	Dir       string // session directory for outputs
	Template  string // output filename template, DefaultTemplate if empty
	Choice    *Choice
}

// BuildArgs assembles the yt-dlp argument list for a task's primary
// attempt. The returned slice does not include the media URL.
func BuildArgs(req Request) []string {
	args := baseArgs(req)

	if req.Choice == nil || req.Choice.VariantID == "" {
		return append(args, genericFormatArgs(req)...)
	}

	c := req.Choice
	recode := c.Ext != "" && !strings.EqualFold(c.Ext, VideoContainer)

	switch {
	case c.HasVideo && c.HasAudio:
		args = append(args, "-f", c.VariantID, "--merge-output-format", VideoContainer)
		if recode {
			args = append(args, "--recode-video", VideoContainer)
		}
	case c.HasVideo && !c.HasAudio:
		args = append(args, "-f", c.VariantID+"+bestaudio", "--merge-output-format", VideoContainer)
		if recode {
			args = append(args, "--recode-video", VideoContainer)
		}
	case !c.HasVideo && c.HasAudio:
		args = append(args,
			"-f", c.VariantID,
			"-x",
			"--audio-format", AudioContainer,
			"--audio-quality", audioQuality(req.Quality),
		)
	default:
		// Malformed catalog data: pass the id through unmodified.
		args = append(args, "-f", c.VariantID)
	}
	return args
}

// FallbackArgs assembles the generic selector flags used for the single
// retry after a format-unavailable failure. The explicit variant choice is
// discarded and the selection is recomputed from the target kind and
// quality cap.
func FallbackArgs(req Request) []string {
	return append(baseArgs(req), genericFormatArgs(req)...)
}

func baseArgs(req Request) []string {
	template := req.Template
	if template == "" {
		template = DefaultTemplate
	}
	return []string{
		"--newline",
		"--no-warnings",
		"-o", filepath.Join(req.Dir, template),
		"--retries", downloadRetries,
		"--fragment-retries", fragmentRetries,
		"--concurrent-fragments", strconv.Itoa(req.Fragments),
		"--buffer-size", bufferSize,
		"--http-chunk-size", httpChunkSize,
	}
}

func genericFormatArgs(req Request) []string {
	if req.Audio {
		return []string{
			"-x",
			"--audio-format", AudioContainer,
			"--audio-quality", audioQuality(req.Quality),
		}
	}

	maxHeight := heightCap(req.Quality)
	selector := fmt.Sprintf(
		"best[height<=%d][vcodec!=none][acodec!=none][ext=%s]/best[height<=%d][vcodec!=none][acodec!=none]",
		maxHeight, VideoContainer, maxHeight,
	)
	return []string{
		"-f", selector,
		"--merge-output-format", VideoContainer,
		"--recode-video", VideoContainer,
	}
}

func audioQuality(quality string) string {
	if q, ok := audioQualityByBitrate[quality]; ok {
		return q
	}
	return defaultAudioQuality
}

func heightCap(quality string) int {
	h, err := strconv.Atoi(strings.TrimSuffix(quality, "p"))
	if err != nil || h <= 0 {
		return defaultHeightCap
	}
	return h
}
