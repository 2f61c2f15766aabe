// Package youtube extracts YouTube channel data from a rendered page.
// Counts are channel-shaped: FollowersRaw holds subscribers and PostsRaw
// holds the video count.
package youtube

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
	platform  = profile.YouTube
	recentCap = 5
)

// Match returns true if the URL is a YouTube channel URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	return strings.Contains(lower, "youtube.com/") || strings.Contains(lower, "youtu.be/")
}

var (
	nameSet = locator.Set{
		locator.Css(`yt-dynamic-text-view-model h1 span`),
		locator.Css(`#channel-name #text`),
		locator.Css(`ytd-channel-name yt-formatted-string`),
	}
	bioSet = locator.Set{
		locator.Css(`yt-description-preview-view-model span`),
		locator.Css(`#description-container span`),
		locator.Css(`meta[name="description"]`),
	}
	subscribersSet = locator.Set{
		locator.ByText(`yt-content-metadata-view-model span`, `subscribers|مشترك`),
		locator.Css(`#subscriber-count`),
		locator.Css(`yt-formatted-string#subscriber-count`),
	}
	videoCountSet = locator.Set{
		locator.ByText(`yt-content-metadata-view-model span`, `videos|مقطع`),
		locator.Css(`#videos-count`),
	}
	verifiedSet = locator.Set{
		locator.Css(`ytd-badge-supported-renderer [aria-label="Verified"]`),
		locator.Css(`.badge-style-type-verified`),
	}
	avatarSet = locator.Set{
		locator.Css(`yt-avatar-shape img`),
		locator.Css(`#avatar img`),
	}
	coverSet = locator.Set{
		locator.Css(`yt-image-banner-view-model img`),
		locator.Css(`#banner img`),
	}
	websiteSet = locator.Set{
		locator.Css(`yt-channel-external-link-view-model a`),
		locator.Css(`#primary-links a`),
	}
	videoLinkSet  = locator.Css(`ytd-rich-item-renderer a#thumbnail`)
	videoTitleSet = locator.Css(`ytd-rich-item-renderer #video-title`)
)

var watchIDPattern = regexp.MustCompile(`[?&]v=([^&]+)`)

// Extract reads the currently loaded YouTube channel page.
func Extract(ctx context.Context, page locator.Page, logger *slog.Logger) (p *profile.Profile) {
	p = &profile.Profile{Platform: platform, Fields: make(map[string]string)}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("youtube extraction panicked, returning partial data", "panic", r)
			p.Error = fmt.Sprintf("extraction panicked: %v", r)
		}
	}()

	p.Username = handleFromURL(page.URL())
	p.Name = locator.TextOf(ctx, page, nameSet)
	p.Bio = locator.TextOf(ctx, page, bioSet)
	p.FollowersRaw = normalize.CountToken(locator.TextOf(ctx, page, subscribersSet))
	p.PostsRaw = normalize.CountToken(locator.TextOf(ctx, page, videoCountSet))
	p.Verified = locator.Exists(ctx, page, verifiedSet)
	p.AvatarURL = locator.AttrOf(ctx, page, avatarSet, "src")
	p.CoverURL = locator.AttrOf(ctx, page, coverSet, "src")
	p.Website = locator.AttrOf(ctx, page, websiteSet, "href")
	p.Recent = recentVideos(ctx, page)

	return p
}

func recentVideos(ctx context.Context, page locator.Page) []profile.ContentItem {
	anchors, err := page.ResolveAll(ctx, videoLinkSet, recentCap)
	if err != nil {
		return nil
	}
	titles, _ := page.ResolveAll(ctx, videoTitleSet, recentCap) //nolint:errcheck // titles are optional

	var items []profile.ContentItem
	for i, a := range anchors {
		href, err := a.Attr(ctx, "href")
		if err != nil || href == "" {
			continue
		}
		item := profile.ContentItem{URL: href}
		if m := watchIDPattern.FindStringSubmatch(href); len(m) > 1 {
			item.ID = m[1]
		}
		if i < len(titles) {
			if title, err := titles[i].Text(ctx); err == nil {
				item.Caption = strings.TrimSpace(title)
			}
		}
		items = append(items, item)
	}
	return items
}

// handleFromURL pulls the @handle from modern channel URLs. Legacy
// /channel/UC... URLs have opaque IDs, which are kept as-is.
func handleFromURL(urlStr string) string {
	lower := strings.ToLower(urlStr)
	if m := regexp.MustCompile(`youtube\.com/@([^/?#]+)`).FindStringSubmatch(lower); len(m) > 1 {
		return m[1]
	}
	if m := regexp.MustCompile(`youtube\.com/channel/([^/?#]+)`).FindStringSubmatch(lower); len(m) > 1 {
		return m[1]
	}
	return ""
}
