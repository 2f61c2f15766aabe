package facebook

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
		{"https://facebook.com/somepage", true},
		{"https://www.facebook.com/somepage", true},
		{"https://fb.com/somepage", true},
		{"https://x.com/somepage", false},
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

func TestExtractPage(t *testing.T) {
	page := pagetest.New("https://facebook.com/acmecafe")
	page.Set(locator.Css(`h1`), &pagetest.Element{TextValue: "Acme Cafe"})
	page.Set(locator.Css(`a[href*="followers"]`), &pagetest.Element{TextValue: "12K followers"})
	page.Set(locator.Css(`[role="main"] a`), &pagetest.Element{TextValue: "3.4K likes"})
	page.Set(locator.Css(`svg[title="Verified account"]`), &pagetest.Element{})
	page.Set(locator.Css(`[data-pagelet="ProfileTilesFeed"] a[href*="/pages/category/"]`),
		&pagetest.Element{TextValue: "Coffee Shop"})
	page.SetList(locator.Css(`[role="main"] a[href*="/posts/"]`), []*pagetest.Element{
		{TextValue: "2 days ago", Attrs: map[string]string{"href": "https://facebook.com/acmecafe/posts/991"}},
	})

	p := Extract(context.Background(), page, slog.Default())
	if p.Username != "acmecafe" {
		t.Errorf("Username = %q", p.Username)
	}
	if p.Name != "Acme Cafe" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.FollowersRaw != "12K" {
		t.Errorf("FollowersRaw = %q", p.FollowersRaw)
	}
	if p.Fields["likes"] != "3.4K" {
		t.Errorf(`Fields["likes"] = %q, want "3.4K"`, p.Fields["likes"])
	}
	if p.Fields["category"] != "Coffee Shop" {
		t.Errorf(`Fields["category"] = %q`, p.Fields["category"])
	}
	if !p.Verified {
		t.Error("Verified = false, want true")
	}
	if len(p.Recent) != 1 || p.Recent[0].ID != "991" {
		t.Errorf("Recent = %+v", p.Recent)
	}
	if p.Recent[0].PostedAt == nil {
		t.Error("PostedAt not derived from relative date text")
	}
}

func TestUsernameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://facebook.com/acmecafe", "acmecafe"},
		{"https://fb.com/acmecafe/about", "acmecafe"},
		{"https://facebook.com/profile.php?id=123", ""},
		{"https://facebook.com/pages/category/x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := usernameFromURL(tt.url); got != tt.want {
				t.Errorf("usernameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
