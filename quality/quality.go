// Package quality scores scraped profiles and aggregates them into a
// cross-platform summary.
package quality

import (
	"math"

	"github.com/codeGROOVE-dev/socialite/normalize"
	"github.com/codeGROOVE-dev/socialite/profile"
)

// Status buckets a profile score. Status is a pure function of score;
// StatusUnknown appears only for a nil or error-bearing profile.
type Status string

// Score statuses with their fixed lower bounds.
const (
	StatusExcellent Status = "excellent" // score >= 70
	StatusGood      Status = "good"      // score >= 50
	StatusNeedsWork Status = "needs_improvement"
	StatusPoor      Status = "poor"
	StatusUnknown   Status = "unknown"
)

// Metrics carries the normalized signals behind an Analysis.
type Metrics struct {
	Followers          *int64
	Verified           bool
	HasWebsite         bool
	HasRecentContent   bool
	RecentContentCount int
}

// Analysis is the quality assessment of exactly one profile.
type Analysis struct {
	Score           int // clamped to 0..100
	Status          Status
	Issues          []string
	Recommendations []string
	Metrics         Metrics
}

// PlatformScore pairs a platform with its analysis inside a Summary.
type PlatformScore struct {
	Platform profile.Platform
	Score    int
}

// Summary aggregates many analyzed profiles for one entity.
type Summary struct {
	TotalPlatforms     int
	ActivePlatforms    int
	TotalFollowers     int64
	VerifiedAccounts   int
	OverallScore       int
	Best               *PlatformScore
	Worst              *PlatformScore
	TopIssues          []string
	TopRecommendations []string
}

// Follower-count tiers. Each threshold is a lower bound for the points
// that follow it; below the first threshold scores the floor.
const (
	tierSmall  = 100
	tierMid    = 1_000
	tierLarge  = 10_000
	tierHuge   = 100_000
	minBioLen  = 50
	listCap    = 5
	recentItem = 1
)

// Analyze scores a single profile from completeness, verification, and
// activity signals. A nil or error-bearing profile is unknowable and
// scores zero.
func Analyze(p *profile.Profile) Analysis {
	if p == nil || p.Error != "" {
		a := Analysis{Score: 0, Status: StatusUnknown}
		if p != nil {
			a.Issues = append(a.Issues, "profile could not be scraped: "+p.Error)
		} else {
			a.Issues = append(a.Issues, "no profile data available")
		}
		return a
	}

	var a Analysis

	followers, haveFollowers := normalize.AbbreviatedCount(p.FollowersRaw)
	if haveFollowers {
		a.Metrics.Followers = &followers
	}
	switch {
	case !haveFollowers || followers < tierSmall:
		a.Score += 5
		a.Issues = append(a.Issues, "very small audience")
		a.Recommendations = append(a.Recommendations, "grow your audience with regular posting and cross-promotion")
	case followers < tierMid:
		a.Score += 15
		a.Recommendations = append(a.Recommendations, "grow your audience with regular posting and cross-promotion")
	case followers < tierLarge:
		a.Score += 30
	case followers < tierHuge:
		a.Score += 45
	default:
		a.Score += 50
	}

	a.Metrics.Verified = p.Verified
	if p.Verified {
		a.Score += 15
	} else {
		a.Issues = append(a.Issues, "account is not verified")
		a.Recommendations = append(a.Recommendations, "apply for platform verification to build trust")
	}

	if len(p.Bio) > minBioLen {
		a.Score += 10
	} else {
		a.Issues = append(a.Issues, "bio is missing or too short")
		a.Recommendations = append(a.Recommendations, "write a complete bio describing who you are and what you offer")
	}

	a.Metrics.HasWebsite = p.Website != ""
	if p.Website != "" {
		a.Score += 10
	} else {
		a.Recommendations = append(a.Recommendations, "add a website link to capture traffic")
	}

	a.Metrics.RecentContentCount = len(p.Recent)
	a.Metrics.HasRecentContent = len(p.Recent) >= recentItem
	if a.Metrics.HasRecentContent {
		a.Score += 15
	} else {
		a.Issues = append(a.Issues, "no recent content found")
		a.Recommendations = append(a.Recommendations, "post consistently to stay visible")
	}

	if a.Score > 100 {
		a.Score = 100
	}
	if a.Score < 0 {
		a.Score = 0
	}
	a.Status = statusFor(a.Score)
	return a
}

func statusFor(score int) Status {
	switch {
	case score >= 70:
		return StatusExcellent
	case score >= 50:
		return StatusGood
	case score >= 30:
		return StatusNeedsWork
	default:
		return StatusPoor
	}
}

// Summarize aggregates profiles into a cross-platform summary. Input order
// matters: best/worst ties and issue deduplication keep first-seen order,
// which is why this takes a slice rather than a map. Error-bearing entries
// count toward TotalPlatforms but contribute nothing else.
func Summarize(profiles []*profile.Profile) Summary {
	s := Summary{TotalPlatforms: len(profiles)}

	var scoreSum, scored int
	for _, p := range profiles {
		if p == nil || p.Error != "" {
			continue
		}
		a := Analyze(p)
		s.ActivePlatforms++
		scored++
		scoreSum += a.Score
		if a.Metrics.Followers != nil {
			s.TotalFollowers += *a.Metrics.Followers
		}
		if p.Verified {
			s.VerifiedAccounts++
		}

		ps := PlatformScore{Platform: p.Platform, Score: a.Score}
		if s.Best == nil || ps.Score > s.Best.Score {
			best := ps
			s.Best = &best
		}
		if s.Worst == nil || ps.Score < s.Worst.Score {
			worst := ps
			s.Worst = &worst
		}

		s.TopIssues = mergeCapped(s.TopIssues, a.Issues)
		s.TopRecommendations = mergeCapped(s.TopRecommendations, a.Recommendations)
	}

	if scored > 0 {
		s.OverallScore = int(math.Round(float64(scoreSum) / float64(scored)))
	}
	return s
}

// mergeCapped appends items not already present, preserving first-seen
// order, up to the summary list cap.
func mergeCapped(dst, items []string) []string {
	for _, item := range items {
		if len(dst) >= listCap {
			return dst
		}
		seen := false
		for _, have := range dst {
			if have == item {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, item)
		}
	}
	return dst
}
