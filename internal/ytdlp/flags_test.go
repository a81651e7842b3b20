package ytdlp

import (
	"slices"
	"strings"
	"testing"
)

func flagValue(args []string, flag string) (string, bool) {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func TestBuildArgsBaseFlags(t *testing.T) {
	args := BuildArgs(Request{Audio: true, Quality: "128k", Fragments: 4, Dir: "/tmp/s1"})

	if !slices.Contains(args, "--newline") {
		t.Error("expected --newline for parsable stdout")
	}
	if v, _ := flagValue(args, "--concurrent-fragments"); v != "4" {
		t.Errorf("expected 4 concurrent fragments, got %q", v)
	}
	if v, _ := flagValue(args, "-o"); v != "/tmp/s1/%(title)s.%(ext)s" {
		t.Errorf("unexpected output template: %q", v)
	}
	if v, _ := flagValue(args, "--retries"); v != "10" {
		t.Errorf("expected 10 retries, got %q", v)
	}
}

func TestBuildArgsGenericAudio(t *testing.T) {
	tests := []struct {
		quality string
		want    string
	}{
		{"64k", "6"},
		{"128k", "4"},
		{"192k", "2"},
		{"320k", "0"},
		{"512k", "5"}, // unmapped bitrate falls back to the default
	}

	for _, tt := range tests {
		args := BuildArgs(Request{Audio: true, Quality: tt.quality, Fragments: 2, Dir: "/d"})
		if !slices.Contains(args, "-x") {
			t.Fatal("expected audio extraction flag")
		}
		if v, _ := flagValue(args, "--audio-format"); v != "mp3" {
			t.Errorf("expected mp3 audio format, got %q", v)
		}
		if v, _ := flagValue(args, "--audio-quality"); v != tt.want {
			t.Errorf("quality %s: expected %q, got %q", tt.quality, tt.want, v)
		}
	}
}

func TestBuildArgsGenericVideoHonorsHeightCap(t *testing.T) {
	args := BuildArgs(Request{Quality: "720p", Fragments: 2, Dir: "/d"})

	sel, ok := flagValue(args, "-f")
	if !ok {
		t.Fatal("expected a format selector")
	}
	if !strings.Contains(sel, "height<=720") {
		t.Errorf("expected height cap in selector, got %q", sel)
	}
	if !strings.Contains(sel, "[ext=mp4]/") {
		t.Errorf("expected mp4-preferring selector with fallback arm, got %q", sel)
	}
	if v, _ := flagValue(args, "--merge-output-format"); v != "mp4" {
		t.Errorf("expected mp4 merge output, got %q", v)
	}
	if v, _ := flagValue(args, "--recode-video"); v != "mp4" {
		t.Errorf("expected mp4 recode, got %q", v)
	}
}

func TestBuildArgsChosenCombinedVariant(t *testing.T) {
	args := BuildArgs(Request{
		Quality:   "1080p",
		Fragments: 2,
		Dir:       "/d",
		Choice:    &Choice{VariantID: "22", HasVideo: true, HasAudio: true, Ext: "mp4"},
	})

	if v, _ := flagValue(args, "-f"); v != "22" {
		t.Errorf("expected direct variant id, got %q", v)
	}
	if slices.Contains(args, "--recode-video") {
		t.Error("mp4 source must not be recoded")
	}
}

func TestBuildArgsChosenVideoOnlyVariantCombinesBestAudio(t *testing.T) {
	args := BuildArgs(Request{
		Quality:   "2160p",
		Fragments: 8,
		Dir:       "/d",
		Choice:    &Choice{VariantID: "313", HasVideo: true, HasAudio: false, Ext: "webm"},
	})

	if v, _ := flagValue(args, "-f"); v != "313+bestaudio" {
		t.Errorf("expected bestaudio combine, got %q", v)
	}
	if v, _ := flagValue(args, "--merge-output-format"); v != "mp4" {
		t.Errorf("expected mp4 merge, got %q", v)
	}
	if v, _ := flagValue(args, "--recode-video"); v != "mp4" {
		t.Errorf("expected recode for non-mp4 source, got %q", v)
	}
}

func TestBuildArgsChosenAudioOnlyVariantExtracts(t *testing.T) {
	args := BuildArgs(Request{
		Audio:     true,
		Quality:   "320k",
		Fragments: 2,
		Dir:       "/d",
		Choice:    &Choice{VariantID: "251", HasAudio: true, Ext: "webm"},
	})

	if v, _ := flagValue(args, "-f"); v != "251" {
		t.Errorf("expected variant id, got %q", v)
	}
	if !slices.Contains(args, "-x") {
		t.Error("expected audio extraction")
	}
	if v, _ := flagValue(args, "--audio-quality"); v != "0" {
		t.Errorf("expected best VBR level, got %q", v)
	}
}

func TestBuildArgsChosenVariantWithoutComponents(t *testing.T) {
	// Malformed catalog data: the id passes through bare.
	args := BuildArgs(Request{
		Quality:   "1080p",
		Fragments: 2,
		Dir:       "/d",
		Choice:    &Choice{VariantID: "sb0"},
	})

	if v, _ := flagValue(args, "-f"); v != "sb0" {
		t.Errorf("expected bare variant id, got %q", v)
	}
	if slices.Contains(args, "--merge-output-format") || slices.Contains(args, "-x") {
		t.Error("expected no merge or extraction flags")
	}
}

func TestFallbackArgsIgnoreChoice(t *testing.T) {
	req := Request{
		Quality:   "1080p",
		Fragments: 4,
		Dir:       "/d",
		Choice:    &Choice{VariantID: "313", HasVideo: true, Ext: "webm"},
	}

	args := FallbackArgs(req)
	sel, _ := flagValue(args, "-f")
	if strings.Contains(sel, "313") {
		t.Errorf("fallback must discard the explicit variant, got %q", sel)
	}
	if !strings.Contains(sel, "height<=1080") {
		t.Errorf("fallback must honor the quality cap, got %q", sel)
	}
}

func TestHeightCapFallback(t *testing.T) {
	if got := heightCap("garbage"); got != 1080 {
		t.Errorf("expected default cap 1080, got %d", got)
	}
	if got := heightCap("2160p"); got != 2160 {
		t.Errorf("expected 2160, got %d", got)
	}
}
