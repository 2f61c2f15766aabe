// Package auth resolves session cookies for authenticated scraping and
// publishing. Cookies come from explicit options, environment variables,
// or local browser stores, in that order.
package auth

import (
	"context"

	"github.com/codeGROOVE-dev/socialite/profile"
)

// Cookie is one session cookie ready for injection into a page session.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
}

// Source represents a source of authentication cookies.
type Source interface {
	// Cookies returns cookies for the given platform, or nil if unavailable.
	Cookies(ctx context.Context, platform profile.Platform) (map[string]string, error)
}

// ChainSources returns cookies from the first source that provides them.
func ChainSources(ctx context.Context, platform profile.Platform, sources ...Source) (map[string]string, error) {
	for _, src := range sources {
		cookies, err := src.Cookies(ctx, platform)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had cookies, but this is not an error
}

// ForPlatform converts a name/value cookie map into injectable cookies
// scoped to the platform's domain. Unknown platforms yield nil.
func ForPlatform(platform profile.Platform, cookies map[string]string) []Cookie {
	domain, ok := platformDomains[platform]
	if !ok {
		return nil
	}
	out := make([]Cookie, 0, len(cookies))
	for name, value := range cookies {
		if value == "" {
			continue
		}
		out = append(out, Cookie{
			Name:     name,
			Value:    value,
			Domain:   "." + domain,
			Path:     "/",
			Secure:   true,
			HTTPOnly: true,
		})
	}
	return out
}

// Domain returns the cookie domain for a platform, or "" if unknown.
func Domain(platform profile.Platform) string {
	return platformDomains[platform]
}

// platformDomains maps platforms to their cookie domains.
var platformDomains = map[profile.Platform]string{
	profile.Instagram: "instagram.com",
	profile.Facebook:  "facebook.com",
	profile.Twitter:   "x.com",
	profile.TikTok:    "tiktok.com",
	profile.YouTube:   "youtube.com",
	profile.LinkedIn:  "linkedin.com",
	profile.Snapchat:  "snapchat.com",
}
