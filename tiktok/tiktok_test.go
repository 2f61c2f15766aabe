package tiktok

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
		{"https://tiktok.com/@dancer", true},
		{"https://www.tiktok.com/@dancer", true},
		{"https://tiktok.com/trending", false},
		{"https://example.com/@dancer", false},
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
	page := pagetest.New("https://tiktok.com/@dancer")
	page.Set(locator.Css(`[data-e2e="user-title"]`), &pagetest.Element{TextValue: "dancer"})
	page.Set(locator.Css(`[data-e2e="user-bio"]`), &pagetest.Element{TextValue: "dancing daily"})
	page.Set(locator.Css(`[data-e2e="followers-count"]`), &pagetest.Element{TextValue: "1.4M"})
	page.Set(locator.Css(`[data-e2e="likes-count"]`), &pagetest.Element{TextValue: "22.3M"})
	page.SetList(locator.Css(`[data-e2e="user-post-item"] a`), []*pagetest.Element{
		{Attrs: map[string]string{"href": "https://tiktok.com/@dancer/video/7301"}},
		{Attrs: map[string]string{"href": "https://tiktok.com/@dancer/video/7302"}},
	})
	page.SetList(locator.Css(`[data-e2e="user-post-item"] img`), []*pagetest.Element{
		{Attrs: map[string]string{"src": "https://cdn.example/t1.jpg", "alt": "clip one"}},
	})

	p := Extract(context.Background(), page, slog.Default())
	if p.Username != "dancer" {
		t.Errorf("Username = %q", p.Username)
	}
	if p.FollowersRaw != "1.4M" {
		t.Errorf("FollowersRaw = %q", p.FollowersRaw)
	}
	if p.Fields["likes"] != "22.3M" {
		t.Errorf(`Fields["likes"] = %q`, p.Fields["likes"])
	}
	if len(p.Recent) != 2 {
		t.Fatalf("Recent has %d items, want 2", len(p.Recent))
	}
	if p.Recent[0].ID != "7301" || p.Recent[0].ThumbnailURL != "https://cdn.example/t1.jpg" {
		t.Errorf("Recent[0] = %+v", p.Recent[0])
	}
	if p.Recent[1].ThumbnailURL != "" {
		t.Errorf("Recent[1].ThumbnailURL = %q, want empty", p.Recent[1].ThumbnailURL)
	}
}

func TestExtractPrivateAccount(t *testing.T) {
	page := pagetest.New("https://tiktok.com/@hidden")
	page.Set(locator.Css(`main p`), &pagetest.Element{TextValue: "This account is private"})

	p := Extract(context.Background(), page, slog.Default())
	if !p.Private {
		t.Error("Private = false, want true via text fallback")
	}
}
