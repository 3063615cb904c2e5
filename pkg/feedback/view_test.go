package feedback

import (
	"strings"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestSubtitle(t *testing.T) {
	exact := strings.Repeat("a", 50)
	long := strings.Repeat("b", 51)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"short", "hello", "hello"},
		{"exactly fifty", exact, exact},
		{"fifty one", long, strings.Repeat("b", 50) + "..."},
		{"multibyte", strings.Repeat("é", 60), strings.Repeat("é", 50) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Subtitle(tt.in); got != tt.want {
				t.Errorf("Subtitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStars(t *testing.T) {
	tests := []struct {
		name   string
		rating *float64
		want   string
	}{
		{"absent", nil, ""},
		{"zero", ptr(0.0), "☆☆☆☆☆"},
		{"fractional", ptr(3.7), "★★★☆☆"},
		{"five", ptr(5.0), "★★★★★"},
		{"above range", ptr(9.0), "★★★★★"},
		{"negative", ptr(-2.0), "☆☆☆☆☆"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stars(tt.rating); got != tt.want {
				t.Errorf("Stars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.Local)
	created := time.Date(2024, 11, 5, 12, 0, 0, 0, time.Local)

	if got := FormatDate(&created, now); got != "11/5/2024" {
		t.Errorf("FormatDate(created) = %q", got)
	}
	// A missing creation time renders as today.
	if got := FormatDate(nil, now); got != "3/9/2025" {
		t.Errorf("FormatDate(nil) = %q", got)
	}
}

func TestTitleInitialAvatar(t *testing.T) {
	if Title("") != DefaultTitle || Title("Hi") != "Hi" {
		t.Error("unexpected title fallback")
	}
	if Initial(nil) != "U" || Initial(ptr("")) != "U" || Initial(ptr("alice@x.y")) != "A" {
		t.Error("unexpected initial")
	}
	if AvatarColor(0) != "#686868" || AvatarColor(6) != "#FF6B6B" {
		t.Error("unexpected avatar palette cycling")
	}
}

func TestPresent(t *testing.T) {
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.Local)
	items := []Item{
		{ID: "a", Message: strings.Repeat("x", 60), Rating: ptr(4.0), Email: ptr("bob@example.com")},
		{ID: "1"},
	}

	views := Present(items, now)
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Title != DefaultTitle || views[0].Stars != "★★★★☆" || views[0].Initial != "B" {
		t.Errorf("unexpected first view %+v", views[0])
	}
	if !strings.HasSuffix(views[0].Subtitle, "...") || views[0].FullMessage != items[0].Message {
		t.Errorf("unexpected subtitle %q", views[0].Subtitle)
	}
	if views[1].Stars != "" || views[1].Date != "3/9/2025" || views[1].Avatar != AvatarPalette[1] {
		t.Errorf("unexpected second view %+v", views[1])
	}
}
