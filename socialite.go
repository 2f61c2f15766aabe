// Package socialite extracts social media presence data from rendered
// profile pages and automates post publishing.
//
// Basic usage:
//
//	eng := socialite.New(socialite.WithBrowserCookies())
//	p := eng.Scrape(ctx, "https://instagram.com/natgeo", "")
//	fmt.Println(p.Name, p.FollowersRaw)
//
// Scraping degrades instead of failing: a profile that could not be read
// comes back with its Error field set and the metadata stamped, so batch
// callers never lose track of an attempt.
package socialite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/socialite/auth"
	"github.com/codeGROOVE-dev/socialite/browser"
	"github.com/codeGROOVE-dev/socialite/cache"
	"github.com/codeGROOVE-dev/socialite/facebook"
	"github.com/codeGROOVE-dev/socialite/instagram"
	"github.com/codeGROOVE-dev/socialite/linkedin"
	"github.com/codeGROOVE-dev/socialite/locator"
	"github.com/codeGROOVE-dev/socialite/profile"
	"github.com/codeGROOVE-dev/socialite/publish"
	"github.com/codeGROOVE-dev/socialite/snapchat"
	"github.com/codeGROOVE-dev/socialite/tiktok"
	"github.com/codeGROOVE-dev/socialite/twitter"
	"github.com/codeGROOVE-dev/socialite/youtube"
)

// ComposeURL is the publish entry point on the one platform with
// publishing support.
const ComposeURL = "https://x.com/compose/post"

// Default timing knobs. Overridable per Engine.
const (
	DefaultSettleDelay = 2 * time.Second
	DefaultStepDelay   = 3 * time.Second
)

// Profile re-exports profile.Profile for convenience.
type Profile = profile.Profile

// Detect returns the platform a URL belongs to, or "" for unknown hosts.
// Aliases (x.com, fb.com, youtu.be) are covered by the platform matchers.
// Note: order matters. TikTok's /@ pattern must be checked before
// platforms with looser substring matches.
func Detect(url string) profile.Platform {
	switch {
	case instagram.Match(url):
		return profile.Instagram
	case facebook.Match(url):
		return profile.Facebook
	case tiktok.Match(url):
		return profile.TikTok
	case twitter.Match(url):
		return profile.Twitter
	case youtube.Match(url):
		return profile.YouTube
	case linkedin.Match(url):
		return profile.LinkedIn
	case snapchat.Match(url):
		return profile.Snapchat
	default:
		return ""
	}
}

// Target is one entry in a batch scan.
type Target struct {
	URL string
	// Platform, when set, overrides detection for this URL.
	Platform profile.Platform
}

// Navigator is the navigation half of a page session. Implemented by
// browser.Session in production and pagetest.Nav in tests.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
	Delay(ctx context.Context, d time.Duration)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithCache enables profile caching between runs.
func WithCache(store *cache.Store) Option {
	return func(e *Engine) { e.cache = store }
}

// WithCookies sets explicit cookie values for authenticated platforms.
func WithCookies(cookies map[string]string) Option {
	return func(e *Engine) { e.cookies = cookies }
}

// WithBrowserCookies enables reading cookies from browser stores.
func WithBrowserCookies() Option {
	return func(e *Engine) { e.browserCookies = true }
}

// WithSettleDelay overrides the post-navigation settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) { e.settleDelay = d }
}

// WithStepDelay overrides the politeness delay between batch targets.
func WithStepDelay(d time.Duration) Option {
	return func(e *Engine) { e.stepDelay = d }
}

// WithHeadful makes the publish browser visible. Required for manual
// submission, where a human clicks the final button.
func WithHeadful() Option {
	return func(e *Engine) { e.headful = true }
}

// WithBridge injects a page-execution bridge, bypassing the live browser.
// Tests use this with pagetest fakes.
func WithBridge(page locator.Page, nav Navigator) Option {
	return func(e *Engine) {
		e.page = page
		e.nav = nav
	}
}

// Engine owns one page-execution context and drives scrapes and publish
// runs against it. Methods are not safe for concurrent use; an Engine
// serializes everything through its single page.
type Engine struct {
	logger  *slog.Logger
	cache   *cache.Store
	cookies map[string]string

	page locator.Page
	nav  Navigator
	// session is set when the engine launched its own browser.
	session *browser.Session

	settleDelay    time.Duration
	stepDelay      time.Duration
	browserCookies bool
	headful        bool
}

// New creates an Engine. The browser launches lazily on first use.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:      slog.Default(),
		settleDelay: DefaultSettleDelay,
		stepDelay:   DefaultStepDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close shuts down the browser session if the engine owns one.
func (e *Engine) Close() {
	if e.session != nil {
		e.session.Close()
		e.session = nil
		e.page = nil
		e.nav = nil
	}
}

// Scrape extracts the profile behind url. The hint platform, when set,
// overrides detection. Scrape never returns nil: failures degrade to a
// profile with Error set and metadata stamped.
func (e *Engine) Scrape(ctx context.Context, url string, hint profile.Platform) *profile.Profile {
	platform := hint
	if platform == "" {
		platform = Detect(url)
	}
	if platform == "" {
		return profile.Failed(platform, url, fmt.Errorf("%w: %s", profile.ErrUnknownPlatform, url))
	}

	if e.cache != nil {
		p, err := e.cache.Profile(ctx, url, func(ctx context.Context) (*profile.Profile, error) {
			return e.scrape(ctx, platform, url), nil
		})
		if err != nil {
			return profile.Failed(platform, url, err)
		}
		return p
	}
	return e.scrape(ctx, platform, url)
}

func (e *Engine) scrape(ctx context.Context, platform profile.Platform, url string) *profile.Profile {
	if err := e.ensureSession(false); err != nil {
		return profile.Failed(platform, url, err)
	}
	e.applyCookies(ctx, platform)

	if err := e.nav.Navigate(ctx, url); err != nil {
		e.logger.Warn("navigation failed", "platform", string(platform), "url", url, "error", err)
		return profile.Failed(platform, url, err)
	}
	// Client-side rendering continues after the DOM first settles.
	e.nav.Delay(ctx, e.settleDelay)

	p := extract(ctx, platform, e.page, e.logger)
	p.Platform = platform
	p.URL = url
	p.ScrapedAt = time.Now().UTC()
	return p
}

// extract dispatches to the platform package. Extractors recover their
// own panics and return partial, error-marked data.
func extract(ctx context.Context, platform profile.Platform, page locator.Page, logger *slog.Logger) *profile.Profile {
	switch platform {
	case profile.Instagram:
		return instagram.Extract(ctx, page, logger)
	case profile.Facebook:
		return facebook.Extract(ctx, page, logger)
	case profile.Twitter:
		return twitter.Extract(ctx, page, logger)
	case profile.TikTok:
		return tiktok.Extract(ctx, page, logger)
	case profile.YouTube:
		return youtube.Extract(ctx, page, logger)
	case profile.LinkedIn:
		return linkedin.Extract(ctx, page, logger)
	case profile.Snapchat:
		return snapchat.Extract(ctx, page, logger)
	default:
		return profile.Failed(platform, page.URL(), profile.ErrUnknownPlatform)
	}
}

// ScrapeMany scrapes targets strictly in order with a politeness delay
// between them. onProgress, when set, fires before each target with the
// completed fraction and a bilingual status label. One failing target
// never aborts the batch; its slot carries an error-bearing profile.
// Duplicate URLs keep their first occurrence only.
func (e *Engine) ScrapeMany(ctx context.Context, targets []Target, onProgress func(float64, string)) []*profile.Profile {
	seen := make(map[string]bool, len(targets))
	unique := make([]Target, 0, len(targets))
	for _, t := range targets {
		if seen[t.URL] {
			continue
		}
		seen[t.URL] = true
		unique = append(unique, t)
	}

	profiles := make([]*profile.Profile, 0, len(unique))
	for i, t := range unique {
		platform := t.Platform
		if platform == "" {
			platform = Detect(t.URL)
		}
		if onProgress != nil {
			onProgress(float64(i)/float64(len(unique)), scanLabel(platform, i+1, len(unique)))
		}
		if i > 0 && e.nav != nil {
			e.nav.Delay(ctx, e.stepDelay)
		}
		profiles = append(profiles, e.Scrape(ctx, t.URL, t.Platform))
	}
	if onProgress != nil {
		onProgress(1, doneLabel(len(unique)))
	}
	return profiles
}

func scanLabel(platform profile.Platform, n, total int) string {
	name := string(platform)
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("Scanning %s (%d/%d) / جارٍ فحص %s", name, n, total, name)
}

func doneLabel(total int) string {
	return fmt.Sprintf("Scan complete: %d platforms / اكتمل الفحص", total)
}

// Publish drives the compose surface through the publish state machine.
// The page navigates to the composer first; a navigation failure is
// reported as a failed account_verification step since nothing later
// could be trusted.
func (e *Engine) Publish(ctx context.Context, req publish.Request) publish.Outcome {
	if err := e.ensureSession(true); err != nil {
		return publish.Outcome{
			FailedStep: publish.StepAccountVerification,
			Message:    err.Error(),
		}
	}
	e.applyCookies(ctx, profile.Twitter)

	if err := e.nav.Navigate(ctx, ComposeURL); err != nil {
		return publish.Outcome{
			FailedStep: publish.StepAccountVerification,
			Message:    fmt.Sprintf("opening composer: %v", err),
		}
	}
	e.nav.Delay(ctx, e.settleDelay)

	pub := publish.New(e.page,
		publish.WithLogger(e.logger),
		publish.WithSettleDelay(e.settleDelay))
	return pub.Run(ctx, req)
}

// ensureSession lazily launches the browser unless a bridge was injected.
func (e *Engine) ensureSession(forPublish bool) error {
	if e.page != nil && e.nav != nil {
		return nil
	}
	opts := []browser.Option{browser.WithLogger(e.logger)}
	if forPublish {
		// Publishing uploads media and may hand off to a human.
		opts = append(opts, browser.WithAssetBlocking(false))
		if e.headful {
			opts = append(opts, browser.WithHeadless(false))
		}
	}
	session, err := browser.New(opts...)
	if err != nil {
		return err
	}
	e.session = session
	e.page = session
	e.nav = session
	return nil
}

// cookieSetter is implemented by sessions that accept cookie injection.
type cookieSetter interface {
	SetCookies(cookies []auth.Cookie) error
}

// applyCookies resolves and injects session cookies for a platform.
// Every failure is soft: scraping proceeds logged-out.
func (e *Engine) applyCookies(ctx context.Context, platform profile.Platform) {
	setter, ok := e.page.(cookieSetter)
	if !ok {
		return
	}

	sources := make([]auth.Source, 0, 3)
	if len(e.cookies) > 0 {
		sources = append(sources, auth.NewStaticSource(e.cookies))
	}
	sources = append(sources, auth.EnvSource{})
	if e.browserCookies {
		sources = append(sources, auth.NewBrowserSource(e.logger))
	}

	cookies, err := auth.ChainSources(ctx, platform, sources...)
	if err != nil || len(cookies) == 0 {
		return
	}
	if err := setter.SetCookies(auth.ForPlatform(platform, cookies)); err != nil {
		e.logger.Debug("cookie injection failed", "platform", string(platform), "error", err)
	}
}
