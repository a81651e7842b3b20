package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/turboplaylist/turboplaylist/internal/model"
)

// Timeout and URL constants
const (
	DefaultProbeTimeout = 60 * time.Second

	watchURLTemplate     = "https://www.youtube.com/watch?v=%s"
	thumbnailURLTemplate = "https://i.ytimg.com/vi/%s/mqdefault.jpg"
	defaultDuration      = "00:00"
)

var playlistURLPattern = regexp.MustCompile(`[?&]list=`)

// WatchURL builds the canonical watch URL for an item id.
func WatchURL(id string) string {
	return fmt.Sprintf(watchURLTemplate, id)
}

// Probe resolves collection metadata and per-item format catalogs by
// invoking the extraction tool in JSON dump mode.
type Probe struct {
	Path    string // binary path, "yt-dlp" if empty
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewProbe creates a probe with the default timeout.
func NewProbe(path string, logger *zap.Logger) *Probe {
	return &Probe{Path: path, Timeout: DefaultProbeTimeout, Logger: logger}
}

// CollectionInfo resolves a source URL into the ordered item list. A URL
// carrying a list parameter is dumped flat; anything else is treated as a
// single item.
func (p *Probe) CollectionInfo(ctx context.Context, url string) ([]model.Item, error) {
	args := []string{
		"--dump-single-json",
		"--no-warnings",
		"--skip-download",
		"--no-check-certificates",
		"--ignore-errors",
	}
	if playlistURLPattern.MatchString(url) {
		args = append(args, "--flat-playlist")
	} else {
		args = append(args, "--no-playlist")
	}

	out, err := p.run(ctx, append(args, url))
	if err != nil {
		return nil, fmt.Errorf("resolve collection info: %w", err)
	}
	return parseCollectionInfo(out)
}

// Formats returns the available encoding variants for one item id.
func (p *Probe) Formats(ctx context.Context, itemID string) ([]model.Variant, error) {
	args := []string{
		"--dump-single-json",
		"--no-warnings",
		"--skip-download",
		"--no-check-certificates",
		"--ignore-errors",
		WatchURL(itemID),
	}
	out, err := p.run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("list formats for %s: %w", itemID, err)
	}
	return parseFormats(out)
}

func (p *Probe) run(ctx context.Context, args []string) ([]byte, error) {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path := p.Path
	if path == "" {
		path = defaultBinary
	}
	cmd := exec.CommandContext(ctx, path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("yt-dlp timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, tail(stderr.String(), 512))
	}
	return stdout.Bytes(), nil
}

// TranscoderAvailable reports whether the transcoding tool is installed.
// Merging and recoding silently degrade without it, so the client surfaces
// the state up front.
func TranscoderAvailable(ctx context.Context, path string) bool {
	if path == "" {
		path = "ffmpeg"
	}
	return exec.CommandContext(ctx, path, "-version").Run() == nil
}

// dump mirrors the fields of the tool's single-JSON output this engine
// reads. A flat playlist dump carries entries; a single video carries its
// own id at the top level.
type dump struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Entries []dumpEntry `json:"entries"`

	DurationString string          `json:"duration_string"`
	Thumbnails     []dumpThumbnail `json:"thumbnails"`
	Formats        []dumpFormat    `json:"formats"`
}

type dumpEntry struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	DurationString string          `json:"duration_string"`
	Thumbnails     []dumpThumbnail `json:"thumbnails"`
}

type dumpThumbnail struct {
	URL string `json:"url"`
}

type dumpFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	TBR            float64 `json:"tbr"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	FormatNote     string  `json:"format_note"`
	Format         string  `json:"format"`
}

func parseCollectionInfo(data []byte) ([]model.Item, error) {
	var d dump
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}

	entries := d.Entries
	if len(entries) == 0 && d.ID != "" {
		// Single video: the dump itself is the only entry.
		entries = []dumpEntry{{
			ID:             d.ID,
			Title:          d.Title,
			DurationString: d.DurationString,
			Thumbnails:     d.Thumbnails,
		}}
	}

	items := make([]model.Item, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		thumbnail := fmt.Sprintf(thumbnailURLTemplate, e.ID)
		if len(e.Thumbnails) > 0 && e.Thumbnails[0].URL != "" {
			thumbnail = e.Thumbnails[0].URL
		}
		duration := e.DurationString
		if duration == "" {
			duration = defaultDuration
		}
		items = append(items, model.NewItem(e.ID, e.Title, thumbnail, duration))
	}
	return items, nil
}

func parseFormats(data []byte) ([]model.Variant, error) {
	var d dump
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}

	variants := make([]model.Variant, 0, len(d.Formats))
	for _, f := range d.Formats {
		size := f.Filesize
		if size == 0 {
			size = f.FilesizeApprox
		}
		note := f.FormatNote
		if note == "" {
			note = f.Format
		}
		variants = append(variants, model.Variant{
			ID:       f.FormatID,
			Ext:      f.Ext,
			Height:   f.Height,
			FPS:      f.FPS,
			Filesize: size,
			TBR:      f.TBR,
			HasVideo: f.VCodec != "" && f.VCodec != "none",
			HasAudio: f.ACodec != "" && f.ACodec != "none",
			Note:     note,
		})
	}
	return variants, nil
}
