// Package linkedin extracts LinkedIn profile and company-page data from a
// rendered page. LinkedIn aggressively gates logged-out views, so most
// fields depend on an authenticated session; everything degrades to the
// public card when the wall is up.
package linkedin

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
	platform  = profile.LinkedIn
	recentCap = 6
)

// Match returns true if the URL is a LinkedIn profile or company URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	return strings.Contains(lower, "linkedin.com/in/") || strings.Contains(lower, "linkedin.com/company/")
}

var (
	nameSet = locator.Set{
		locator.Css(`main h1.top-card-layout__title`),
		locator.Css(`.pv-text-details__left-panel h1`),
		locator.Css(`main h1`),
	}
	headlineSet = locator.Set{
		locator.Css(`.top-card-layout__headline`),
		locator.Css(`.pv-text-details__left-panel .text-body-medium`),
	}
	aboutSet = locator.Set{
		locator.Css(`section.summary div.core-section-container__content p`),
		locator.Css(`#about ~ .display-flex span[aria-hidden="true"]`),
	}
	followersSet = locator.Set{
		locator.ByText(`main span`, `followers|متابع`),
		locator.Css(`.top-card-layout__first-subline span`),
	}
	connectionsSet = locator.Set{
		locator.ByText(`main span`, `connections|زميل`),
		locator.Css(`.top-card__subline-item`),
	}
	verifiedSet = locator.Set{
		locator.Css(`svg[aria-label="Verified"]`),
		locator.Css(`.pv-member-badge--verified`),
	}
	authwallSet = locator.Set{
		locator.Css(`.authwall-join-form`),
		locator.Css(`form.join-form`),
		locator.ByText(`main h1`, `Sign in|تسجيل الدخول`),
	}
	avatarSet = locator.Set{
		locator.Css(`.top-card-layout__entity-image`),
		locator.Css(`.pv-top-card-profile-picture__image`),
	}
	coverSet = locator.Set{
		locator.Css(`.cover-img__image`),
		locator.Css(`.profile-background-image img`),
	}
	websiteSet = locator.Set{
		locator.Css(`a[data-tracking-control-name="about_website"]`),
		locator.Css(`.top-card-layout a[rel="nofollow noopener"]`),
	}
	locationSet = locator.Set{
		locator.Css(`.top-card-layout .top-card__subline-item:first-child`),
		locator.Css(`.pv-text-details__left-panel .text-body-small`),
	}
	activitySet = locator.Css(`main a[href*="/posts/"]`)
)

var activityIDPattern = regexp.MustCompile(`activity-(\d+)`)

// Extract reads the currently loaded LinkedIn profile or company page.
func Extract(ctx context.Context, page locator.Page, logger *slog.Logger) (p *profile.Profile) {
	p = &profile.Profile{Platform: platform, Fields: make(map[string]string)}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("linkedin extraction panicked, returning partial data", "panic", r)
			p.Error = fmt.Sprintf("extraction panicked: %v", r)
		}
	}()

	p.Username = slugFromURL(page.URL())
	p.Name = locator.TextOf(ctx, page, nameSet)
	p.Bio = locator.TextOf(ctx, page, aboutSet)
	p.FollowersRaw = normalize.CountToken(locator.TextOf(ctx, page, followersSet))
	p.Verified = locator.Exists(ctx, page, verifiedSet)
	// The auth wall hides everything; report the profile as gated rather
	// than empty-and-healthy.
	p.Private = locator.Exists(ctx, page, authwallSet)
	p.AvatarURL = locator.AttrOf(ctx, page, avatarSet, "src")
	p.CoverURL = locator.AttrOf(ctx, page, coverSet, "src")
	p.Website = locator.AttrOf(ctx, page, websiteSet, "href")

	if headline := locator.TextOf(ctx, page, headlineSet); headline != "" {
		p.Fields["headline"] = headline
	}
	if location := locator.TextOf(ctx, page, locationSet); location != "" {
		p.Fields["location"] = location
	}
	if conns := normalize.CountToken(locator.TextOf(ctx, page, connectionsSet)); conns != "" {
		p.Fields["connections"] = conns
	}
	p.Recent = recentActivity(ctx, page)

	return p
}

func recentActivity(ctx context.Context, page locator.Page) []profile.ContentItem {
	anchors, err := page.ResolveAll(ctx, activitySet, recentCap)
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
		if m := activityIDPattern.FindStringSubmatch(href); len(m) > 1 {
			item.ID = m[1]
		}
		if text, err := a.Text(ctx); err == nil {
			item.Caption = strings.TrimSpace(text)
		}
		items = append(items, item)
	}
	return items
}

func slugFromURL(urlStr string) string {
	re := regexp.MustCompile(`linkedin\.com/(?:in|company)/([^/?#]+)`)
	if m := re.FindStringSubmatch(strings.ToLower(urlStr)); len(m) > 1 {
		return m[1]
	}
	return ""
}
