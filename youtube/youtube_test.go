package youtube

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
		{"https://youtube.com/@creator", true},
		{"https://www.youtube.com/channel/UCabc", true},
		{"https://youtu.be/xyz", true},
		{"https://vimeo.com/creator", false},
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
	page := pagetest.New("https://youtube.com/@creator")
	page.Set(locator.Css(`yt-dynamic-text-view-model h1 span`), &pagetest.Element{TextValue: "Creator Channel"})
	page.Set(locator.Css(`yt-content-metadata-view-model span`),
		&pagetest.Element{TextValue: "1.2M subscribers"})
	page.Set(locator.Css(`yt-avatar-shape img`),
		&pagetest.Element{Attrs: map[string]string{"src": "https://cdn.example/avatar.jpg"}})
	page.SetList(locator.Css(`ytd-rich-item-renderer a#thumbnail`), []*pagetest.Element{
		{Attrs: map[string]string{"href": "/watch?v=abc123"}},
	})
	page.SetList(locator.Css(`ytd-rich-item-renderer #video-title`), []*pagetest.Element{
		{TextValue: "My latest video"},
	})

	p := Extract(context.Background(), page, slog.Default())
	if p.Username != "creator" {
		t.Errorf("Username = %q", p.Username)
	}
	if p.Name != "Creator Channel" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.FollowersRaw != "1.2M" {
		t.Errorf("FollowersRaw = %q, want subscriber count", p.FollowersRaw)
	}
	if len(p.Recent) != 1 {
		t.Fatalf("Recent has %d items, want 1", len(p.Recent))
	}
	if p.Recent[0].ID != "abc123" || p.Recent[0].Caption != "My latest video" {
		t.Errorf("Recent[0] = %+v", p.Recent[0])
	}
}

func TestHandleFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://youtube.com/@creator", "creator"},
		{"https://www.youtube.com/@Creator/videos", "creator"},
		{"https://youtube.com/channel/UCabcDEF", "ucabcdef"},
		{"https://youtube.com/watch?v=abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := handleFromURL(tt.url); got != tt.want {
				t.Errorf("handleFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
