package ytdlp

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns matched against each stdout line independently. With --newline
// the tool emits lines like:
//
//	[download]  25.5% of 10.00MiB at 5.00MiB/s ETA 00:05
var (
	percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	speedPattern   = regexp.MustCompile(`at\s+([0-9.]+\w+/s)`)
	etaPattern     = regexp.MustCompile(`ETA\s+(\d{2}:\d{2})`)
)

// Progress is one scraped telemetry sample.
type Progress struct {
	Percent float64
	Speed   string // empty when absent on the line
	ETA     string // empty when absent on the line
}

// ParseProgress scrapes a single output line. It reports a sample only when
// the percentage pattern matches; speed and ETA are attached when present
// on the same line. Anything else is discarded: this is best-effort
// telemetry, not a reliable state source.
func ParseProgress(line string) (Progress, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Progress{}, false
	}

	m := percentPattern.FindStringSubmatch(line)
	if m == nil {
		return Progress{}, false
	}
	percent, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Progress{}, false
	}

	p := Progress{Percent: percent}
	if sm := speedPattern.FindStringSubmatch(line); sm != nil {
		p.Speed = sm[1]
	}
	if em := etaPattern.FindStringSubmatch(line); em != nil {
		p.ETA = em[1]
	}
	return p, true
}
