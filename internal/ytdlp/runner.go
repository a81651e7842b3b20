package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

const defaultBinary = "yt-dlp"

// ErrFormatUnavailable marks the one recoverable failure class: the
// requested format id no longer exists upstream. It triggers exactly one
// retry with the generic fallback flags.
var ErrFormatUnavailable = errors.New("requested format is not available")

// Runner executes one download task and streams progress samples back.
type Runner interface {
	Download(ctx context.Context, url string, args []string, onProgress func(Progress)) error
}

// ExecRunner drives the yt-dlp binary directly.
type ExecRunner struct {
	Path   string // binary path, "yt-dlp" if empty
	Logger *zap.Logger
}

// NewExecRunner creates a runner for the given binary path.
func NewExecRunner(path string, logger *zap.Logger) *ExecRunner {
	return &ExecRunner{Path: path, Logger: logger}
}

// Download spawns the tool, scans its stdout line by line into onProgress,
// and waits for exit. A failure whose stderr mentions the format being
// unavailable is returned wrapping ErrFormatUnavailable.
func (r *ExecRunner) Download(ctx context.Context, url string, args []string, onProgress func(Progress)) error {
	cmd := exec.CommandContext(ctx, r.path(), append(args, url)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %s: %w", r.path(), err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if p, ok := ParseProgress(scanner.Text()); ok && onProgress != nil {
			onProgress(p)
		}
	}

	if err := cmd.Wait(); err != nil {
		return r.classify(err, stderr.String(), url)
	}
	return nil
}

func (r *ExecRunner) classify(err error, stderr, url string) error {
	if strings.Contains(stderr, "Requested format is not available") {
		return fmt.Errorf("%w: %s", ErrFormatUnavailable, url)
	}
	if r.Logger != nil {
		r.Logger.Debug("download failed",
			zap.String("url", url),
			zap.String("stderr", tail(stderr, 512)),
		)
	}
	return fmt.Errorf("yt-dlp failed: %w: %s", err, tail(stderr, 512))
}

func (r *ExecRunner) path() string {
	if r.Path != "" {
		return r.Path
	}
	return defaultBinary
}

// tail returns at most n trailing bytes of s; error detail lives at the end
// of the stderr stream.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
