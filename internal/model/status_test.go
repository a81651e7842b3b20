package model

import "testing"

func TestItemStatusAdvanceIsMonotonic(t *testing.T) {
	order := []ItemStatus{
		StatusPending,
		StatusPreparing,
		StatusDownloading,
		StatusConverting,
		StatusCompleted,
	}

	s := StatusPending
	for _, next := range order {
		s = s.Advance(next)
		if s != next {
			t.Fatalf("expected forward transition to %s, got %s", next, s)
		}
	}

	// A late progress line must not regress a settled item.
	if got := StatusCompleted.Advance(StatusDownloading); got != StatusCompleted {
		t.Errorf("expected completed to stick, got %s", got)
	}
	if got := StatusConverting.Advance(StatusPreparing); got != StatusConverting {
		t.Errorf("expected converting to stick, got %s", got)
	}
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Profile
		tasks     int
		fragments int
	}{
		{"normal", "NORMAL", ProfileNormal, 1, 2},
		{"fast", "FAST", ProfileFast, 2, 4},
		{"turbo", "TURBO", ProfileTurbo, 4, 8},
		{"unknown falls back to normal", "LUDICROUS", ProfileNormal, 1, 2},
		{"empty falls back to normal", "", ProfileNormal, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseProfile(tt.input)
			if p != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, p)
			}
			if p.TaskParallelism() != tt.tasks {
				t.Errorf("expected %d tasks, got %d", tt.tasks, p.TaskParallelism())
			}
			if p.FragmentParallelism() != tt.fragments {
				t.Errorf("expected %d fragments, got %d", tt.fragments, p.FragmentParallelism())
			}
		})
	}
}

func TestNewItemDefaults(t *testing.T) {
	item := NewItem("abc123", "Some Title", "https://example.com/t.jpg", "03:21")

	if item.Status != StatusPending {
		t.Errorf("expected pending, got %s", item.Status)
	}
	if item.Progress != 0 {
		t.Errorf("expected zero progress, got %f", item.Progress)
	}
	if item.Size != "waiting..." || item.Speed != "-" || item.ETA != "-" {
		t.Errorf("unexpected telemetry placeholders: %q %q %q", item.Size, item.Speed, item.ETA)
	}
}
