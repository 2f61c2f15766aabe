// Package profile defines the common types for social media presence extraction.
package profile

import (
	"errors"
	"time"
)

// Common errors returned by the engine and platform packages.
var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrNavigation      = errors.New("page navigation failed")
	ErrNoBrowser       = errors.New("no browser session")
)

// Platform identifies one of the supported social networks.
type Platform string

// Supported platforms. The empty string means "unknown".
const (
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
	TikTok    Platform = "tiktok"
	YouTube   Platform = "youtube"
	LinkedIn  Platform = "linkedin"
	Snapchat  Platform = "snapchat"
)

// All returns the supported platforms in canonical order.
// This order drives progress reporting and summary iteration.
func All() []Platform {
	return []Platform{Instagram, Facebook, Twitter, TikTok, YouTube, LinkedIn, Snapchat}
}

// Known reports whether p is one of the supported platforms.
func Known(p Platform) bool {
	for _, k := range All() {
		if k == p {
			return true
		}
	}
	return false
}

// ContentItem is one entry in a profile's recent-content sample.
type ContentItem struct {
	ID           string
	URL          string
	ThumbnailURL string
	Caption      string
	PostedRaw    string     // timestamp text as rendered, e.g. "3 days ago"
	PostedAt     *time.Time // parsed absolute time, nil when unparseable
}

// Profile represents extracted data from one platform for one target URL.
//
// A scrape attempt always yields a Profile: when extraction degrades, Error
// is set and the remaining fields hold whatever was read before the failure.
// Profiles are immutable once returned and are not persisted by this module.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	// Metadata, stamped by the dispatcher on every attempt.
	Platform  Platform
	URL       string // original URL scraped
	ScrapedAt time.Time

	// Core profile data.
	Username string // handle without @ prefix
	Name     string // display name
	Bio      string
	Verified bool
	Private  bool

	// Raw count strings exactly as rendered ("1.2K", "٣٤ ألف").
	// Meaning varies per platform (e.g. subscribers/videos on YouTube).
	FollowersRaw string
	FollowingRaw string
	PostsRaw     string

	AvatarURL string
	CoverURL  string
	Website   string

	// Recent is a bounded sample of recent posts (at most 6 items).
	Recent []ContentItem

	// Platform-specific extras (headline, category, channel handle, etc.).
	Fields map[string]string

	// Error is set when the scrape degraded instead of completing.
	Error string `json:",omitempty"`
}

// Failed creates the degraded profile shape for a scrape that could not
// produce data. The record still carries platform, URL, and timestamp so
// callers never lose track of the attempt.
func Failed(platform Platform, url string, err error) *Profile {
	return &Profile{
		Platform:  platform,
		URL:       url,
		ScrapedAt: time.Now(),
		Error:     err.Error(),
	}
}
