// Package snapchat extracts Snapchat public-profile data from a rendered
// page. Public profiles expose far less than other platforms; subscriber
// counts and story tiles only exist for creator accounts.
package snapchat

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
	platform  = profile.Snapchat
	recentCap = 5
)

// Match returns true if the URL is a Snapchat profile URL.
func Match(urlStr string) bool {
	return strings.Contains(strings.ToLower(urlStr), "snapchat.com/add/") ||
		strings.Contains(strings.ToLower(urlStr), "snapchat.com/@")
}

var (
	nameSet = locator.Set{
		locator.Css(`[data-test="PublicProfileTitle"]`),
		locator.Css(`main h4`),
		locator.Css(`.PublicProfileCard h1`),
	}
	bioSet = locator.Set{
		locator.Css(`[data-test="PublicProfileDescription"]`),
		locator.Css(`.PublicProfileCard p`),
	}
	subscribersSet = locator.Set{
		locator.ByText(`main span`, `subscribers|مشترك`),
		locator.Css(`[data-test="SubscriberCount"]`),
	}
	avatarSet = locator.Set{
		locator.Css(`img.ProfilePictureImg`),
		locator.Css(`main picture img`),
	}
	storySet = locator.Css(`a[href*="/spotlight/"]`)
)

var spotlightIDPattern = regexp.MustCompile(`/spotlight/([^/?#]+)`)

// Extract reads the currently loaded Snapchat public profile.
func Extract(ctx context.Context, page locator.Page, logger *slog.Logger) (p *profile.Profile) {
	p = &profile.Profile{Platform: platform, Fields: make(map[string]string)}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("snapchat extraction panicked, returning partial data", "panic", r)
			p.Error = fmt.Sprintf("extraction panicked: %v", r)
		}
	}()

	p.Username = usernameFromURL(page.URL())
	p.Name = locator.TextOf(ctx, page, nameSet)
	p.Bio = locator.TextOf(ctx, page, bioSet)
	p.FollowersRaw = normalize.CountToken(locator.TextOf(ctx, page, subscribersSet))
	p.AvatarURL = locator.AttrOf(ctx, page, avatarSet, "src")
	p.Recent = recentSpotlights(ctx, page)

	return p
}

func recentSpotlights(ctx context.Context, page locator.Page) []profile.ContentItem {
	anchors, err := page.ResolveAll(ctx, storySet, recentCap)
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
		if m := spotlightIDPattern.FindStringSubmatch(href); len(m) > 1 {
			item.ID = m[1]
		}
		items = append(items, item)
	}
	return items
}

func usernameFromURL(urlStr string) string {
	lower := strings.ToLower(urlStr)
	for _, re := range usernamePatterns {
		if m := re.FindStringSubmatch(lower); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

var usernamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`snapchat\.com/add/([^/?#]+)`),
	regexp.MustCompile(`snapchat\.com/@([^/?#]+)`),
}
