// Package twitter extracts Twitter/X profile data from a rendered page.
// X changes its DOM frequently; data-testid hooks are the most stable
// handles and everything else is a fallback.
package twitter

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
	platform  = profile.Twitter
	recentCap = 6
)

// MaxPostLength is the platform's published compose limit.
const MaxPostLength = 280

// Match returns true if the URL is a Twitter/X profile URL. The x.com
// check is anchored to the host position so that domains merely ending
// in "x" (netflix.com, wix.com) do not match.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	if strings.Contains(lower, "twitter.com/") {
		return true
	}
	for _, host := range []string{"x.com/", "www.x.com/", "mobile.x.com/"} {
		if strings.HasPrefix(lower, host) || strings.Contains(lower, "//"+host) {
			return true
		}
	}
	return false
}

var (
	nameSet = locator.Set{
		locator.Css(`[data-testid="UserName"] div[dir="ltr"] span`),
		locator.Css(`[data-testid="UserName"] span`),
		locator.Css(`main h2[role="heading"]`),
	}
	bioSet = locator.Set{
		locator.Css(`[data-testid="UserDescription"]`),
		locator.Css(`[data-testid="UserProfileHeader_Items"] + div`),
	}
	followersSet = locator.Set{
		locator.Css(`a[href$="/verified_followers"]`),
		locator.Css(`a[href$="/followers"]`),
		locator.ByText(`main a`, `followers|متابعون`),
	}
	followingSet = locator.Set{
		locator.Css(`a[href$="/following"]`),
		locator.ByText(`main a`, `following|يتابعهم`),
	}
	postCountSet = locator.Set{
		locator.Css(`[data-testid="primaryColumn"] h2 + div[dir="ltr"]`),
		locator.ByText(`main div`, `posts|منشورات`),
	}
	verifiedSet = locator.Set{
		locator.Css(`[data-testid="UserName"] svg[aria-label="Verified account"]`),
		locator.Css(`[data-testid="UserName"] svg[aria-label="حساب موثق"]`),
		locator.Css(`[data-testid="icon-verified"]`),
	}
	protectedSet = locator.Set{
		locator.Css(`[data-testid="UserName"] svg[aria-label="Protected account"]`),
		locator.ByText(`main span`, `posts are protected|المنشورات محمية`),
	}
	avatarSet = locator.Set{
		locator.Css(`[data-testid^="UserAvatar-Container"] img`),
		locator.Css(`a[href$="/photo"] img`),
	}
	coverSet = locator.Set{
		locator.Css(`a[href$="/header_photo"] img`),
	}
	websiteSet = locator.Set{
		locator.Css(`[data-testid="UserUrl"]`),
		locator.Css(`[data-testid="UserProfileHeader_Items"] a[rel*="noopener"]`),
	}
	tweetLinkSet = locator.Css(`article[data-testid="tweet"] a[href*="/status/"]`)
	tweetTimeSet = locator.Css(`article[data-testid="tweet"] time`)
)

var statusIDPattern = regexp.MustCompile(`/status/(\d+)`)

// Extract reads the currently loaded X profile page.
func Extract(ctx context.Context, page locator.Page, logger *slog.Logger) (p *profile.Profile) {
	p = &profile.Profile{Platform: platform, Fields: make(map[string]string)}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("twitter extraction panicked, returning partial data", "panic", r)
			p.Error = fmt.Sprintf("extraction panicked: %v", r)
		}
	}()

	p.Username = usernameFromURL(page.URL())
	p.Name = locator.TextOf(ctx, page, nameSet)
	p.Bio = locator.TextOf(ctx, page, bioSet)
	p.FollowersRaw = normalize.CountToken(locator.TextOf(ctx, page, followersSet))
	p.FollowingRaw = normalize.CountToken(locator.TextOf(ctx, page, followingSet))
	p.PostsRaw = normalize.CountToken(locator.TextOf(ctx, page, postCountSet))
	p.Verified = locator.Exists(ctx, page, verifiedSet)
	p.Private = locator.Exists(ctx, page, protectedSet)
	p.AvatarURL = locator.AttrOf(ctx, page, avatarSet, "src")
	p.CoverURL = locator.AttrOf(ctx, page, coverSet, "src")
	p.Website = locator.TextOf(ctx, page, websiteSet)
	p.Recent = recentTweets(ctx, page)

	return p
}

func recentTweets(ctx context.Context, page locator.Page) []profile.ContentItem {
	anchors, err := page.ResolveAll(ctx, tweetLinkSet, recentCap)
	if err != nil {
		return nil
	}
	times, _ := page.ResolveAll(ctx, tweetTimeSet, recentCap) //nolint:errcheck // timestamps are optional

	var items []profile.ContentItem
	for i, a := range anchors {
		href, err := a.Attr(ctx, "href")
		if err != nil || !strings.Contains(href, "/status/") {
			continue
		}
		item := profile.ContentItem{URL: href}
		if m := statusIDPattern.FindStringSubmatch(href); len(m) > 1 {
			item.ID = m[1]
		}
		if caption, err := a.Text(ctx); err == nil {
			item.Caption = strings.TrimSpace(caption)
		}
		if i < len(times) {
			if dt, err := times[i].Attr(ctx, "datetime"); err == nil && dt != "" {
				item.PostedRaw = dt
				if at, err := time.Parse(time.RFC3339, dt); err == nil {
					item.PostedAt = &at
				}
			}
		}
		items = append(items, item)
	}
	return items
}

func usernameFromURL(urlStr string) string {
	re := regexp.MustCompile(`(?:x\.com|twitter\.com)/([^/?#]+)`)
	m := re.FindStringSubmatch(strings.ToLower(urlStr))
	if len(m) < 2 {
		return ""
	}
	switch m[1] {
	case "home", "explore", "notifications", "messages", "i", "settings", "search", "compose":
		return ""
	}
	return m[1]
}
