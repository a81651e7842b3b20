package format

import (
	"strings"

	"github.com/turboplaylist/turboplaylist/internal/model"
)

// Target is the output kind a download run produces.
type Target string

const (
	TargetAudio Target = "audio"
	TargetVideo Target = "video"
)

// ParseTarget maps a wire string to a Target, defaulting to video.
func ParseTarget(s string) Target {
	if Target(s) == TargetAudio {
		return TargetAudio
	}
	return TargetVideo
}

// Pick returns the default variant id for the given target, or false when
// no candidate qualifies. Identical input always yields the identical pick.
//
// Note: the video pick takes the tallest available resolution and ignores
// the configured quality cap; the cap only constrains the generic fallback
// selector built for uncustomized downloads.
func Pick(variants []model.Variant, target Target) (string, bool) {
	if target == TargetAudio {
		return pickAudio(variants)
	}
	return pickVideo(variants)
}

func pickAudio(variants []model.Variant) (string, bool) {
	var (
		best      model.Variant
		bestScore float64
		found     bool
	)
	for _, v := range variants {
		if !v.HasAudio || v.HasVideo {
			continue
		}
		score := audioScore(v)
		// Strict greater-than keeps the first occurrence on ties.
		if !found || score > bestScore {
			best, bestScore, found = v, score, true
		}
	}
	if !found {
		return "", false
	}
	return best.ID, true
}

func pickVideo(variants []model.Variant) (string, bool) {
	bestByHeight := make(map[int]model.Variant)
	var heights []int // insertion order, breaks equal-height ties

	for _, v := range variants {
		if !v.HasVideo || v.Height == 0 {
			continue
		}
		current, seen := bestByHeight[v.Height]
		if !seen {
			bestByHeight[v.Height] = v
			heights = append(heights, v.Height)
			continue
		}
		if videoScore(v) > videoScore(current) {
			bestByHeight[v.Height] = v
		}
	}
	if len(heights) == 0 {
		return "", false
	}

	tallest := heights[0]
	for _, h := range heights[1:] {
		if h > tallest {
			tallest = h
		}
	}
	return bestByHeight[tallest].ID, true
}

func audioScore(v model.Variant) float64 {
	return v.TBR + float64(v.Filesize)/1_000_000
}

func videoScore(v model.Variant) float64 {
	var extBonus float64
	if strings.EqualFold(v.Ext, "mp4") {
		extBonus = 1000
	}
	return extBonus + v.FPS*10 + v.TBR + float64(v.Filesize)/1_000_000
}
