package snapchat

import (
	"context"
	"log/slog"
	"testing"

	"github.com/codeGROOVE-dev/socialite/locator"
	"github.com/codeGROOVE-dev/socialite/pagetest"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://snapchat.com/add/ghostface", true},
		{"https://www.snapchat.com/@ghostface", true},
		{"https://snapchat.com/discover", false},
		{"https://example.com/add/ghostface", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Match(tt.url); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	page := pagetest.New("https://snapchat.com/add/ghostface")
	page.Set(locator.Css(`[data-test="PublicProfileTitle"]`), &pagetest.Element{TextValue: "Ghost Face"})
	page.Set(locator.Css(`main span`), &pagetest.Element{TextValue: "45.2K subscribers"})
	page.SetList(locator.Css(`a[href*="/spotlight/"]`), []*pagetest.Element{
		{Attrs: map[string]string{"href": "https://snapchat.com/spotlight/W7abc"}},
	})

	p := Extract(context.Background(), page, slog.Default())
	if p.Username != "ghostface" {
		t.Errorf("Username = %q", p.Username)
	}
	if p.Name != "Ghost Face" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.FollowersRaw != "45.2K" {
		t.Errorf("FollowersRaw = %q", p.FollowersRaw)
	}
	if len(p.Recent) != 1 || p.Recent[0].ID != "W7abc" {
		t.Errorf("Recent = %+v", p.Recent)
	}
}

func TestUsernameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://snapchat.com/add/ghostface", "ghostface"},
		{"https://snapchat.com/@ghostface", "ghostface"},
		{"https://snapchat.com/discover", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := usernameFromURL(tt.url); got != tt.want {
				t.Errorf("usernameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
