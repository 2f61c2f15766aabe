package socialite

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/socialite/locator"
	"github.com/codeGROOVE-dev/socialite/pagetest"
	"github.com/codeGROOVE-dev/socialite/profile"
	"github.com/codeGROOVE-dev/socialite/publish"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		url  string
		want profile.Platform
	}{
		{"https://instagram.com/natgeo", profile.Instagram},
		{"https://www.facebook.com/nasa", profile.Facebook},
		{"https://fb.com/nasa", profile.Facebook},
		{"https://twitter.com/nasa", profile.Twitter},
		{"https://x.com/nasa", profile.Twitter},
		{"https://tiktok.com/@charlidamelio", profile.TikTok},
		{"https://youtube.com/@mkbhd", profile.YouTube},
		{"https://youtu.be/dQw4w9WgXcQ", profile.YouTube},
		{"https://linkedin.com/in/johndoe", profile.LinkedIn},
		{"https://snapchat.com/add/ghostface", profile.Snapchat},
		{"https://example.com/profile", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Detect(tt.url); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

// bridge builds an engine wired to fakes with no delays.
func bridge(page *pagetest.Page, nav *pagetest.Nav) *Engine {
	return New(
		WithBridge(page, nav),
		WithSettleDelay(0),
		WithStepDelay(0),
	)
}

func TestScrapeStampsMetadata(t *testing.T) {
	page := pagetest.New("https://x.com/nasa")
	nav := &pagetest.Nav{}
	eng := bridge(page, nav)

	before := time.Now().UTC()
	p := eng.Scrape(context.Background(), "https://x.com/nasa", "")

	if p.Platform != profile.Twitter {
		t.Errorf("Platform = %q, want twitter", p.Platform)
	}
	if p.URL != "https://x.com/nasa" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.ScrapedAt.Before(before) {
		t.Errorf("ScrapedAt = %v, want stamped at scrape time", p.ScrapedAt)
	}
	if len(nav.Visited) != 1 || nav.Visited[0] != "https://x.com/nasa" {
		t.Errorf("Visited = %v", nav.Visited)
	}
}

func TestScrapeHintOverridesDetection(t *testing.T) {
	page := pagetest.New("https://short.link/abc")
	nav := &pagetest.Nav{}
	eng := bridge(page, nav)

	p := eng.Scrape(context.Background(), "https://short.link/abc", profile.Instagram)
	if p.Platform != profile.Instagram {
		t.Errorf("Platform = %q, want instagram (hint)", p.Platform)
	}
}

func TestScrapeUnknownPlatformDegrades(t *testing.T) {
	eng := bridge(pagetest.New(""), &pagetest.Nav{})

	p := eng.Scrape(context.Background(), "https://example.com/someone", "")
	if p == nil {
		t.Fatal("Scrape must never return nil")
	}
	if p.Error == "" {
		t.Error("unknown platform should set Error")
	}
	if !strings.Contains(p.Error, profile.ErrUnknownPlatform.Error()) {
		t.Errorf("Error = %q", p.Error)
	}
}

func TestScrapeNavigationFailureDegrades(t *testing.T) {
	page := pagetest.New("https://instagram.com/gone")
	nav := &pagetest.Nav{Err: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	eng := bridge(page, nav)

	p := eng.Scrape(context.Background(), "https://instagram.com/gone", "")
	if p.Error == "" {
		t.Error("navigation failure should set Error")
	}
	if p.Platform != profile.Instagram || p.URL != "https://instagram.com/gone" {
		t.Errorf("degraded profile lost metadata: %+v", p)
	}
}

func TestScrapeManySequentialWithProgress(t *testing.T) {
	page := pagetest.New("https://x.com/nasa")
	nav := &pagetest.Nav{}
	eng := bridge(page, nav)
	eng.stepDelay = time.Millisecond

	targets := []Target{
		{URL: "https://x.com/nasa"},
		{URL: "https://instagram.com/nasa"},
		{URL: "https://x.com/nasa"}, // duplicate, dropped
		{URL: "https://example.com/nasa"},
	}

	var fractions []float64
	var labels []string
	profiles := eng.ScrapeMany(context.Background(), targets, func(frac float64, label string) {
		fractions = append(fractions, frac)
		labels = append(labels, label)
	})

	if len(profiles) != 3 {
		t.Fatalf("got %d profiles, want 3 (duplicate dropped)", len(profiles))
	}
	if profiles[0].Platform != profile.Twitter || profiles[1].Platform != profile.Instagram {
		t.Errorf("order not preserved: %q, %q", profiles[0].Platform, profiles[1].Platform)
	}
	if profiles[2].Error == "" {
		t.Error("unknown target should degrade, not abort the batch")
	}
	if len(fractions) != 4 {
		t.Fatalf("got %d progress calls, want 4 (3 targets + completion)", len(fractions))
	}
	if fractions[0] != 0 || fractions[len(fractions)-1] != 1 {
		t.Errorf("fractions = %v, want 0..1", fractions)
	}
	if !strings.Contains(labels[0], "twitter") || !strings.Contains(labels[0], "جارٍ فحص") {
		t.Errorf("label = %q, want bilingual platform label", labels[0])
	}
	if nav.Delays == 0 {
		t.Error("batch should pause between targets")
	}
}

// faultyPage panics on every element lookup, standing in for a tab whose
// DevTools connection died mid-extraction.
type faultyPage struct{ url string }

func (*faultyPage) Resolve(context.Context, locator.Locator) (locator.Element, error) {
	panic("tab connection lost")
}

func (*faultyPage) ResolveAll(context.Context, locator.Locator, int) ([]locator.Element, error) {
	panic("tab connection lost")
}

func (*faultyPage) Eval(context.Context, string) (string, error) { return "", nil }

func (p *faultyPage) URL() string { return p.url }

func TestScrapeManyFailingExtractorsDegradeEveryTarget(t *testing.T) {
	nav := &pagetest.Nav{}
	eng := New(
		WithBridge(&faultyPage{url: "https://x.com/nasa"}, nav),
		WithSettleDelay(0),
		WithStepDelay(0),
	)

	targets := []Target{
		{URL: "https://x.com/nasa"},
		{URL: "https://instagram.com/nasa"},
	}
	profiles := eng.ScrapeMany(context.Background(), targets, nil)

	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2 (batch must not abort)", len(profiles))
	}
	for i, p := range profiles {
		if p.Error == "" {
			t.Errorf("profiles[%d].Error empty, want error-bearing profile", i)
		}
		if p.Platform == "" || p.URL == "" || p.ScrapedAt.IsZero() {
			t.Errorf("profiles[%d] lost metadata: %+v", i, p)
		}
	}
}

func TestScrapeManyEmpty(t *testing.T) {
	eng := bridge(pagetest.New(""), &pagetest.Nav{})
	profiles := eng.ScrapeMany(context.Background(), nil, nil)
	if len(profiles) != 0 {
		t.Errorf("got %d profiles, want 0", len(profiles))
	}
}

func TestPublishNavigatesToComposer(t *testing.T) {
	page := pagetest.New(ComposeURL)
	editor := &pagetest.Element{}
	page.Set(locator.Css(`[data-testid="tweetTextarea_0"]`), editor)
	nav := &pagetest.Nav{}
	eng := bridge(page, nav)

	out := eng.Publish(context.Background(), publish.Request{Text: "release day"})
	if !out.Success || !out.RequiresManualSubmit {
		t.Fatalf("Publish = %+v, want staged success", out)
	}
	if len(nav.Visited) != 1 || nav.Visited[0] != ComposeURL {
		t.Errorf("Visited = %v, want composer", nav.Visited)
	}
}

func TestPublishNavigationFailure(t *testing.T) {
	page := pagetest.New("")
	nav := &pagetest.Nav{Err: errors.New("tab crashed")}
	eng := bridge(page, nav)

	out := eng.Publish(context.Background(), publish.Request{Text: "never sent"})
	if out.Success {
		t.Fatal("navigation failure must fail the run")
	}
	if out.FailedStep != publish.StepAccountVerification {
		t.Errorf("FailedStep = %q, want %q", out.FailedStep, publish.StepAccountVerification)
	}
}
