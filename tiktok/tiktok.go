// Package tiktok extracts TikTok profile data from a rendered page.
package tiktok

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/socialite/locator"
	"github.com/codeGROOVE-dev/socialite/normalize"
	"github.com/codeGROOVE-dev/socialite/profile"
)

const (
	platform  = profile.TikTok
	recentCap = 5
)

// Match returns true if the URL is a TikTok profile URL.
func Match(urlStr string) bool {
	return strings.Contains(strings.ToLower(urlStr), "tiktok.com/@")
}

var (
	nameSet = locator.Set{
		locator.Css(`[data-e2e="user-title"]`),
		locator.Css(`h1[data-e2e="user-subtitle"]`),
		locator.Css(`h2.share-title`),
	}
	bioSet = locator.Set{
		locator.Css(`[data-e2e="user-bio"]`),
		locator.Css(`h2.share-desc`),
	}
	followersSet = locator.Set{
		locator.Css(`[data-e2e="followers-count"]`),
		locator.ByText(`h3 div`, `followers|المتابعون`),
	}
	followingSet = locator.Set{
		locator.Css(`[data-e2e="following-count"]`),
		locator.ByText(`h3 div`, `following|يتابع`),
	}
	likesSet = locator.Set{
		locator.Css(`[data-e2e="likes-count"]`),
		locator.ByText(`h3 div`, `likes|تسجيلات الإعجاب`),
	}
	verifiedSet = locator.Set{
		locator.Css(`[data-e2e="user-title"] + svg circle`),
		locator.Css(`svg[aria-label="Verified"]`),
	}
	privateSet = locator.Set{
		locator.Css(`[data-e2e="private-account"]`),
		locator.ByText(`main p`, `This account is private|هذا الحساب خاص`),
	}
	avatarSet = locator.Set{
		locator.Css(`[data-e2e="user-avatar"] img`),
		locator.Css(`span.avatar img`),
	}
	websiteSet = locator.Set{
		locator.Css(`[data-e2e="user-link"]`),
		locator.Css(`a[data-e2e="user-bio-link"]`),
	}
	videoSet = locator.Css(`[data-e2e="user-post-item"] a`)
	thumbSet = locator.Css(`[data-e2e="user-post-item"] img`)
)

var videoIDPattern = regexp.MustCompile(`/video/(\d+)`)

// Extract reads the currently loaded TikTok profile page.
func Extract(ctx context.Context, page locator.Page, logger *slog.Logger) (p *profile.Profile) {
	p = &profile.Profile{Platform: platform, Fields: make(map[string]string)}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("tiktok extraction panicked, returning partial data", "panic", r)
			p.Error = fmt.Sprintf("extraction panicked: %v", r)
		}
	}()

	p.Username = usernameFromURL(page.URL())
	p.Name = locator.TextOf(ctx, page, nameSet)
	p.Bio = locator.TextOf(ctx, page, bioSet)
	p.FollowersRaw = normalize.CountToken(locator.TextOf(ctx, page, followersSet))
	p.FollowingRaw = normalize.CountToken(locator.TextOf(ctx, page, followingSet))
	p.Verified = locator.Exists(ctx, page, verifiedSet)
	p.Private = locator.Exists(ctx, page, privateSet)
	p.AvatarURL = locator.AttrOf(ctx, page, avatarSet, "src")
	p.Website = locator.AttrOf(ctx, page, websiteSet, "href")
	if likes := normalize.CountToken(locator.TextOf(ctx, page, likesSet)); likes != "" {
		p.Fields["likes"] = likes
	}
	p.Recent = recentVideos(ctx, page)

	return p
}

func recentVideos(ctx context.Context, page locator.Page) []profile.ContentItem {
	anchors, err := page.ResolveAll(ctx, videoSet, recentCap)
	if err != nil {
		return nil
	}
	thumbs, _ := page.ResolveAll(ctx, thumbSet, recentCap) //nolint:errcheck // thumbnails are optional

	var items []profile.ContentItem
	for i, a := range anchors {
		href, err := a.Attr(ctx, "href")
		if err != nil || href == "" {
			continue
		}
		item := profile.ContentItem{URL: href}
		if m := videoIDPattern.FindStringSubmatch(href); len(m) > 1 {
			item.ID = m[1]
		}
		if i < len(thumbs) {
			if src, err := thumbs[i].Attr(ctx, "src"); err == nil {
				item.ThumbnailURL = src
			}
			if alt, err := thumbs[i].Attr(ctx, "alt"); err == nil {
				item.Caption = alt
			}
		}
		items = append(items, item)
	}
	return items
}

func usernameFromURL(urlStr string) string {
	re := regexp.MustCompile(`tiktok\.com/@([^/?#]+)`)
	if m := re.FindStringSubmatch(strings.ToLower(urlStr)); len(m) > 1 {
		return m[1]
	}
	return ""
}
