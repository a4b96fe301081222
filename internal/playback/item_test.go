package playback

import "testing"

func intPtr(v int) *int { return &v }

func TestAudioItem_Validate(t *testing.T) {
	base := AudioItem{ID: "a", Kind: KindPodcast, Title: "T", DurationSec: 600}

	tests := []struct {
		name    string
		mutate  func(*AudioItem)
		wantErr bool
	}{
		{"valid without clip", func(*AudioItem) {}, false},
		{"valid clip", func(a *AudioItem) { a.ClipStartSec, a.ClipEndSec = intPtr(300), intPtr(420) }, false},
		{"clip to end", func(a *AudioItem) { a.ClipStartSec, a.ClipEndSec = intPtr(0), intPtr(600) }, false},
		{"missing id", func(a *AudioItem) { a.ID = "" }, true},
		{"unknown kind", func(a *AudioItem) { a.Kind = "Audiobook" }, true},
		{"zero duration", func(a *AudioItem) { a.DurationSec = 0 }, true},
		{"clip start only", func(a *AudioItem) { a.ClipStartSec = intPtr(10) }, true},
		{"clip inverted", func(a *AudioItem) { a.ClipStartSec, a.ClipEndSec = intPtr(420), intPtr(300) }, true},
		{"clip empty", func(a *AudioItem) { a.ClipStartSec, a.ClipEndSec = intPtr(5), intPtr(5) }, true},
		{"clip past end", func(a *AudioItem) { a.ClipStartSec, a.ClipEndSec = intPtr(300), intPtr(601) }, true},
		{"negative clip", func(a *AudioItem) { a.ClipStartSec, a.ClipEndSec = intPtr(-1), intPtr(10) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := base
			tt.mutate(&item)
			err := item.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDailyAudioPack_Validate(t *testing.T) {
	pack := testPack(10, 20)
	if err := pack.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := pack
	empty.Items = nil
	if err := empty.Validate(); err == nil {
		t.Fatal("expected error for empty pack")
	}

	dup := testPack(10, 20)
	dup.Items[1].ID = dup.Items[0].ID
	if err := dup.Validate(); err == nil {
		t.Fatal("expected error for duplicate ids")
	}

	noDay := testPack(10)
	noDay.DayNumber = 0
	if err := noDay.Validate(); err == nil {
		t.Fatal("expected error for day 0")
	}
}

func TestFormatTime(t *testing.T) {
	tests := map[int]string{0: "0:00", 9: "0:09", 60: "1:00", 235: "3:55", 600: "10:00", -3: "0:00"}
	for in, want := range tests {
		if got := FormatTime(in); got != want {
			t.Errorf("FormatTime(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestTotalDuration(t *testing.T) {
	if got := testPack(600, 240, 235).TotalDurationSec(); got != 1075 {
		t.Fatalf("total = %d, want 1075", got)
	}
}
