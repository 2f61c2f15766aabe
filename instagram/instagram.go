// Package instagram extracts Instagram profile data from a rendered page.
package instagram

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/socialite/locator"
	"github.com/codeGROOVE-dev/socialite/normalize"
	"github.com/codeGROOVE-dev/socialite/profile"
)

const (
	platform  = profile.Instagram
	recentCap = 6
)

// Match returns true if the URL is an Instagram profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	return strings.Contains(lower, "instagram.com/")
}

// Instagram rewrites its markup often; every logical element carries
// alternates spanning markup eras and the Arabic locale.
var (
	nameSet = locator.Set{
		locator.Css(`header section > div h1`),
		locator.Css(`header h2`),
		locator.Xpath(`//header//span[@dir="auto"]`),
	}
	bioSet = locator.Set{
		locator.Css(`header section > div:last-child span[dir="auto"]`),
		locator.Css(`header .-vDIg span`),
		locator.Css(`div[data-testid="user-bio"]`),
	}
	followersSet = locator.Set{
		locator.Css(`a[href$="/followers/"]`),
		locator.ByText(`header li`, `follower|متابع`),
	}
	followingSet = locator.Set{
		locator.Css(`a[href$="/following/"]`),
		locator.ByText(`header li`, `following|يتابع`),
	}
	postsSet = locator.Set{
		locator.ByText(`header li`, `posts|منشور`),
		locator.Css(`header ul li:first-child`),
	}
	verifiedSet = locator.Set{
		locator.Css(`header svg[aria-label="Verified"]`),
		locator.Css(`header svg[aria-label="حساب موثق"]`),
		locator.Css(`[title="Verified"]`),
	}
	privateSet = locator.Set{
		locator.ByText(`h2`, `private|هذا الحساب خاص`),
		locator.Css(`[data-testid="private-account-banner"]`),
	}
	avatarSet = locator.Set{
		locator.Css(`header img[alt*="profile picture"]`),
		locator.Css(`header img`),
	}
	websiteSet = locator.Set{
		locator.Css(`header a[rel*="me"]`),
		locator.Css(`header a[href^="https://l.instagram.com"]`),
	}
	recentSet = locator.Css(`main article a[href*="/p/"]`)
)

var postIDPattern = regexp.MustCompile(`/p/([^/?]+)`)

// Extract reads the currently loaded Instagram profile page. Read-only:
// every field is independently guarded, so one missing element never voids
// the profile, and a panic returns whatever was populated up to that point.
func Extract(ctx context.Context, page locator.Page, logger *slog.Logger) (p *profile.Profile) {
	p = &profile.Profile{Platform: platform, Fields: make(map[string]string)}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("instagram extraction panicked, returning partial data", "panic", r)
			p.Error = fmt.Sprintf("extraction panicked: %v", r)
		}
	}()

	p.Username = usernameFromURL(page.URL())
	p.Name = locator.TextOf(ctx, page, nameSet)
	p.Bio = locator.TextOf(ctx, page, bioSet)
	p.FollowersRaw = normalize.CountToken(locator.TextOf(ctx, page, followersSet))
	p.FollowingRaw = normalize.CountToken(locator.TextOf(ctx, page, followingSet))
	p.PostsRaw = normalize.CountToken(locator.TextOf(ctx, page, postsSet))
	p.Verified = locator.Exists(ctx, page, verifiedSet)
	p.Private = locator.Exists(ctx, page, privateSet)
	p.AvatarURL = locator.AttrOf(ctx, page, avatarSet, "src")
	p.Website = locator.AttrOf(ctx, page, websiteSet, "href")
	p.Recent = recentPosts(ctx, page)

	return p
}

func recentPosts(ctx context.Context, page locator.Page) []profile.ContentItem {
	anchors, err := page.ResolveAll(ctx, recentSet, recentCap)
	if err != nil {
		return nil
	}
	var items []profile.ContentItem
	for _, a := range anchors {
		href, err := a.Attr(ctx, "href")
		if err != nil || href == "" {
			continue
		}
		item := profile.ContentItem{URL: href}
		if m := postIDPattern.FindStringSubmatch(href); len(m) > 1 {
			item.ID = m[1]
		}
		if caption, err := a.Attr(ctx, "aria-label"); err == nil {
			item.Caption = caption
		}
		if posted, err := a.Attr(ctx, "data-posted"); err == nil && posted != "" {
			item.PostedRaw = posted
			if at, ok := normalize.RelativeTime(posted, time.Now()); ok {
				item.PostedAt = &at
			}
		}
		items = append(items, item)
	}
	return items
}

func usernameFromURL(urlStr string) string {
	re := regexp.MustCompile(`instagram\.com/([^/?#]+)`)
	if m := re.FindStringSubmatch(strings.ToLower(urlStr)); len(m) > 1 {
		u := m[1]
		switch u {
		case "p", "explore", "reels", "stories", "accounts":
			return ""
		}
		return u
	}
	return ""
}
