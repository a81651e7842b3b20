package format

import (
	"testing"

	"github.com/turboplaylist/turboplaylist/internal/model"
)

func TestPickAudioOnlyCandidates(t *testing.T) {
	variants := []model.Variant{
		{ID: "v1", Ext: "mp4", Height: 720, HasVideo: true, HasAudio: true},
		{ID: "a1", Ext: "m4a", TBR: 128, HasAudio: true},
		{ID: "a2", Ext: "webm", TBR: 160, HasAudio: true},
	}

	id, ok := Pick(variants, TargetAudio)
	if !ok {
		t.Fatal("expected a pick")
	}
	if id != "a2" {
		t.Errorf("expected highest-bitrate audio-only variant a2, got %s", id)
	}
}

func TestPickAudioNoCandidates(t *testing.T) {
	variants := []model.Variant{
		{ID: "v1", Ext: "mp4", Height: 1080, HasVideo: true, HasAudio: true},
		{ID: "v2", Ext: "webm", Height: 720, HasVideo: true},
	}

	if _, ok := Pick(variants, TargetAudio); ok {
		t.Error("expected no pick when no audio-only variant exists")
	}
}

func TestPickAudioTieBreaksOnFirstOccurrence(t *testing.T) {
	variants := []model.Variant{
		{ID: "a1", Ext: "m4a", TBR: 128, HasAudio: true},
		{ID: "a2", Ext: "opus", TBR: 128, HasAudio: true},
	}

	id, _ := Pick(variants, TargetAudio)
	if id != "a1" {
		t.Errorf("expected first occurrence a1 on tie, got %s", id)
	}
}

func TestPickAudioSizeContributesToScore(t *testing.T) {
	variants := []model.Variant{
		{ID: "a1", TBR: 128, HasAudio: true},
		{ID: "a2", TBR: 128, Filesize: 5_000_000, HasAudio: true},
	}

	id, _ := Pick(variants, TargetAudio)
	if id != "a2" {
		t.Errorf("expected size bonus to win, got %s", id)
	}
}

func TestPickVideoHeightDominatesContainerBonus(t *testing.T) {
	// The container bonus only breaks ties within the same height; a taller
	// webm must beat a shorter mp4.
	variants := []model.Variant{
		{ID: "f1", Ext: "mp4", Height: 1080, FPS: 30, HasVideo: true},
		{ID: "f2", Ext: "webm", Height: 1080, FPS: 60, HasVideo: true},
		{ID: "f3", Ext: "webm", Height: 2160, FPS: 30, HasVideo: true},
	}

	id, ok := Pick(variants, TargetVideo)
	if !ok {
		t.Fatal("expected a pick")
	}
	if id != "f3" {
		t.Errorf("expected tallest variant f3, got %s", id)
	}
}

func TestPickVideoContainerBonusWithinHeight(t *testing.T) {
	variants := []model.Variant{
		{ID: "f1", Ext: "webm", Height: 1080, FPS: 60, HasVideo: true},
		{ID: "f2", Ext: "MP4", Height: 1080, FPS: 30, HasVideo: true},
	}

	// mp4 bonus (1000) beats the fps edge (60*10 vs 30*10), and the ext
	// compare is case-insensitive.
	id, _ := Pick(variants, TargetVideo)
	if id != "f2" {
		t.Errorf("expected mp4 variant f2 within equal height, got %s", id)
	}
}

func TestPickVideoRequiresHeight(t *testing.T) {
	variants := []model.Variant{
		{ID: "s1", Ext: "mhtml", HasVideo: true}, // storyboard, no height
		{ID: "a1", Ext: "m4a", TBR: 128, HasAudio: true},
	}

	if _, ok := Pick(variants, TargetVideo); ok {
		t.Error("expected no pick when no candidate has a height")
	}
}

func TestPickVideoEqualHeightInsertionOrder(t *testing.T) {
	variants := []model.Variant{
		{ID: "f1", Ext: "webm", Height: 720, FPS: 30, HasVideo: true},
		{ID: "f2", Ext: "webm", Height: 720, FPS: 30, HasVideo: true},
	}

	// Identical scores: the first-seen representative wins.
	id, _ := Pick(variants, TargetVideo)
	if id != "f1" {
		t.Errorf("expected first-seen f1, got %s", id)
	}
}

func TestPickIsDeterministic(t *testing.T) {
	variants := []model.Variant{
		{ID: "f1", Ext: "mp4", Height: 720, FPS: 30, TBR: 1200, HasVideo: true},
		{ID: "f2", Ext: "webm", Height: 1080, FPS: 30, TBR: 1800, HasVideo: true},
		{ID: "f3", Ext: "mp4", Height: 1080, FPS: 60, TBR: 2400, HasVideo: true},
		{ID: "a1", Ext: "m4a", TBR: 128, HasAudio: true},
	}

	first, _ := Pick(variants, TargetVideo)
	for i := 0; i < 50; i++ {
		got, _ := Pick(variants, TargetVideo)
		if got != first {
			t.Fatalf("pick changed between runs: %s then %s", first, got)
		}
	}
}

func TestParseTarget(t *testing.T) {
	if ParseTarget("audio") != TargetAudio {
		t.Error("expected audio")
	}
	if ParseTarget("video") != TargetVideo {
		t.Error("expected video")
	}
	if ParseTarget("") != TargetVideo {
		t.Error("expected default video")
	}
}
