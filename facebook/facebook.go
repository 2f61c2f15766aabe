// Package facebook extracts Facebook page/profile data from a rendered page.
package facebook

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
	platform  = profile.Facebook
	recentCap = 6
)

// Match returns true if the URL is a Facebook profile or page URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	return strings.Contains(lower, "facebook.com/") || strings.Contains(lower, "fb.com/")
}

var (
	nameSet = locator.Set{
		locator.Css(`h1`),
		locator.Css(`[role="main"] h2 span`),
		locator.Xpath(`//div[@role="main"]//h1/span`),
	}
	bioSet = locator.Set{
		locator.Css(`[data-pagelet="ProfileTilesFeed"] span[dir="auto"]`),
		locator.ByText(`div[role="main"] span`, `^(Intro|نبذة)$`),
		locator.Css(`.profileIntroCard span`),
	}
	// Pages show "likes" and "followers"; personal profiles show "friends".
	followersSet = locator.Set{
		locator.Css(`a[href*="followers"]`),
		locator.ByText(`[role="main"] a`, `followers|متابع`),
		locator.ByText(`[role="main"] span`, `people follow this|شخص يتابع`),
	}
	likesSet = locator.Set{
		locator.ByText(`[role="main"] a`, `likes|تسجيلات إعجاب`),
		locator.ByText(`[role="main"] span`, `people like this|معجب`),
	}
	verifiedSet = locator.Set{
		locator.Css(`svg[title="Verified account"]`),
		locator.Css(`svg[aria-label="Verified account"]`),
		locator.Css(`svg[aria-label="حساب موثق"]`),
		locator.Css(`i[aria-label="Verified Page"]`),
	}
	lockedSet = locator.Set{
		locator.ByText(`div[role="main"] span`, `This content isn't available|المحتوى غير متاح`),
		locator.Css(`img[src*="lock"]`),
	}
	avatarSet = locator.Set{
		locator.Css(`svg[role="img"] image`),
		locator.Css(`[role="main"] image`),
		locator.Css(`img.profilePic`),
	}
	coverSet = locator.Set{
		locator.Css(`[data-imgperflogname="profileCoverPhoto"]`),
		locator.Css(`#cover img`),
	}
	websiteSet = locator.Set{
		locator.Css(`a[href*="l.facebook.com/l.php"]`),
		locator.Css(`[data-pagelet="ProfileTilesFeed"] a[rel*="nofollow"]`),
	}
	recentSet   = locator.Css(`[role="main"] a[href*="/posts/"]`)
	categorySet = locator.Set{
		locator.Css(`[data-pagelet="ProfileTilesFeed"] a[href*="/pages/category/"]`),
	}
)

var postIDPattern = regexp.MustCompile(`/posts/([^/?]+)`)

// Extract reads the currently loaded Facebook profile or page.
func Extract(ctx context.Context, page locator.Page, logger *slog.Logger) (p *profile.Profile) {
	p = &profile.Profile{Platform: platform, Fields: make(map[string]string)}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("facebook extraction panicked, returning partial data", "panic", r)
			p.Error = fmt.Sprintf("extraction panicked: %v", r)
		}
	}()

	p.Username = usernameFromURL(page.URL())
	p.Name = locator.TextOf(ctx, page, nameSet)
	p.Bio = locator.TextOf(ctx, page, bioSet)
	p.FollowersRaw = normalize.CountToken(locator.TextOf(ctx, page, followersSet))
	p.Verified = locator.Exists(ctx, page, verifiedSet)
	p.Private = locator.Exists(ctx, page, lockedSet)
	p.AvatarURL = locator.AttrOf(ctx, page, avatarSet, "xlink:href")
	if p.AvatarURL == "" {
		p.AvatarURL = locator.AttrOf(ctx, page, avatarSet, "src")
	}
	p.CoverURL = locator.AttrOf(ctx, page, coverSet, "src")
	p.Website = locator.AttrOf(ctx, page, websiteSet, "href")

	if likes := normalize.CountToken(locator.TextOf(ctx, page, likesSet)); likes != "" {
		p.Fields["likes"] = likes
	}
	if category := locator.TextOf(ctx, page, categorySet); category != "" {
		p.Fields["category"] = category
	}
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
		if text, err := a.Text(ctx); err == nil {
			item.PostedRaw = strings.TrimSpace(text)
			if at, ok := normalize.RelativeTime(item.PostedRaw, time.Now()); ok {
				item.PostedAt = &at
			}
		}
		items = append(items, item)
	}
	return items
}

func usernameFromURL(urlStr string) string {
	re := regexp.MustCompile(`(?:facebook|fb)\.com/([^/?#]+)`)
	m := re.FindStringSubmatch(strings.ToLower(urlStr))
	if len(m) < 2 {
		return ""
	}
	switch m[1] {
	case "profile.php", "pages", "groups", "watch", "marketplace", "events", "login":
		return ""
	}
	return m[1]
}
