package instagram

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
		{"https://instagram.com/johndoe", true},
		{"https://www.instagram.com/johndoe", true},
		{"https://INSTAGRAM.COM/johndoe", true},
		{"https://twitter.com/johndoe", false},
		{"https://example.com", false},
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
	page := pagetest.New("https://instagram.com/johndoe")
	page.Set(locator.Css(`header section > div h1`), &pagetest.Element{TextValue: "John Doe"})
	page.Set(locator.Css(`header section > div:last-child span[dir="auto"]`),
		&pagetest.Element{TextValue: "Coffee, code, and travel."})
	page.Set(locator.Css(`a[href$="/followers/"]`), &pagetest.Element{TextValue: "1.2K followers"})
	page.Set(locator.Css(`a[href$="/following/"]`), &pagetest.Element{TextValue: "345 following"})
	page.Set(locator.Css(`header svg[aria-label="Verified"]`), &pagetest.Element{})
	page.Set(locator.Css(`header img[alt*="profile picture"]`),
		&pagetest.Element{Attrs: map[string]string{"src": "https://cdn.example/avatar.jpg"}})
	page.SetList(locator.Css(`main article a[href*="/p/"]`), []*pagetest.Element{
		{Attrs: map[string]string{"href": "https://instagram.com/p/abc123/", "data-posted": "3 days ago"}},
		{Attrs: map[string]string{"href": "https://instagram.com/p/def456/"}},
	})

	p := Extract(context.Background(), page, slog.Default())
	if p.Username != "johndoe" {
		t.Errorf("Username = %q, want %q", p.Username, "johndoe")
	}
	if p.Name != "John Doe" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.FollowersRaw != "1.2K" {
		t.Errorf("FollowersRaw = %q, want %q", p.FollowersRaw, "1.2K")
	}
	if p.FollowingRaw != "345" {
		t.Errorf("FollowingRaw = %q, want %q", p.FollowingRaw, "345")
	}
	if !p.Verified {
		t.Error("Verified = false, want true")
	}
	if p.AvatarURL != "https://cdn.example/avatar.jpg" {
		t.Errorf("AvatarURL = %q", p.AvatarURL)
	}
	if len(p.Recent) != 2 {
		t.Fatalf("Recent has %d items, want 2", len(p.Recent))
	}
	if p.Recent[0].ID != "abc123" {
		t.Errorf("Recent[0].ID = %q, want %q", p.Recent[0].ID, "abc123")
	}
	if p.Recent[0].PostedAt == nil {
		t.Error("Recent[0].PostedAt not parsed from relative date")
	}
	if p.Recent[1].PostedAt != nil {
		t.Error("Recent[1].PostedAt should be nil without a timestamp")
	}
}

// An empty page still yields a usable partial profile.
func TestExtractEmptyPage(t *testing.T) {
	page := pagetest.New("https://instagram.com/ghost")
	p := Extract(context.Background(), page, slog.Default())
	if p == nil {
		t.Fatal("Extract returned nil")
	}
	if p.Username != "ghost" {
		t.Errorf("Username = %q, want %q", p.Username, "ghost")
	}
	if p.Name != "" || p.FollowersRaw != "" || len(p.Recent) != 0 {
		t.Errorf("empty page produced non-empty fields: %+v", p)
	}
}

func TestUsernameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://instagram.com/johndoe", "johndoe"},
		{"https://www.instagram.com/johndoe/?hl=en", "johndoe"},
		{"https://instagram.com/p/abc123", ""},
		{"https://instagram.com/explore", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := usernameFromURL(tt.url); got != tt.want {
				t.Errorf("usernameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
