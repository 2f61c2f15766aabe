// Package browser runs a headless Chromium session via Rod and exposes it
// through the locator.Page bridge. One Session drives one tab; the engine
// never issues concurrent calls against it.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/codeGROOVE-dev/socialite/auth"
	"github.com/codeGROOVE-dev/socialite/locator"
	"github.com/codeGROOVE-dev/socialite/profile"
)

const (
	navTimeout    = 30 * time.Second
	navStableDur  = 500 * time.Millisecond
	elementFindTO = 100 * time.Millisecond
)

// blockedResourceTypes lists network resource types the session skips when
// asset blocking is on, to save bandwidth and speed up page loads.
var blockedResourceTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeFont,
	proto.NetworkResourceTypeMedia,
}

// Option configures a Session before launch.
type Option func(*Session)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithHeadless controls whether Chromium runs headless. Manual-submit
// publishing needs a visible window.
func WithHeadless(headless bool) Option {
	return func(s *Session) { s.headless = headless }
}

// WithAssetBlocking controls whether images, fonts, and media are blocked.
// On by default; turn off for publish runs that upload media.
func WithAssetBlocking(block bool) Option {
	return func(s *Session) { s.blockAssets = block }
}

// Session is a live Chromium tab implementing locator.Page plus
// navigation. Create with New; call Close when done.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	router  *rod.HijackRouter
	logger  *slog.Logger

	headless    bool
	blockAssets bool
}

// New launches a Chromium process and opens a stealth tab.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		logger:      slog.Default(),
		headless:    true,
		blockAssets: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	u, err := launcher.New().
		Headless(s.headless).
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch: %w", profile.ErrNoBrowser, err)
	}

	s.browser = rod.New().ControlURL(u)
	if err := s.browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect: %w", profile.ErrNoBrowser, err)
	}

	// Stealth patches the automation fingerprints the platforms sniff for.
	page, err := stealth.Page(s.browser)
	if err != nil {
		_ = s.browser.Close()
		return nil, fmt.Errorf("%w: open tab: %w", profile.ErrNoBrowser, err)
	}
	s.page = page

	if s.blockAssets {
		s.router = page.HijackRequests()
		for _, rt := range blockedResourceTypes {
			if err := s.router.Add("*", rt, func(h *rod.Hijack) {
				h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			}); err != nil {
				s.logger.Debug("hijack rule rejected", "resource", string(rt), "error", err)
			}
		}
		go s.router.Run()
	}

	return s, nil
}

// SetCookies injects session cookies into the tab before navigation.
func (s *Session) SetCookies(cookies []auth.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}
	if err := s.page.SetCookies(params); err != nil {
		return fmt.Errorf("injecting cookies: %w", err)
	}
	return nil
}

// Navigate loads url and waits for the DOM to stabilize. Transient
// failures are retried; a final failure wraps profile.ErrNavigation.
func (s *Session) Navigate(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()
	page := s.page.Context(ctx)

	err := retry.Do(
		func() error {
			if err := page.Navigate(url); err != nil {
				return err
			}
			// WaitStable beats a blind sleep: it returns as soon as the
			// DOM stops mutating for navStableDur.
			if err := page.WaitStable(navStableDur); err != nil {
				s.logger.Debug("page never stabilized, proceeding anyway", "url", url, "error", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.MaxJitter(250*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug("retrying navigation", "attempt", n+1, "url", url, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", profile.ErrNavigation, url, err)
	}
	return nil
}

// Delay sleeps for d or until ctx is cancelled. Used for politeness
// pauses between navigations.
func (*Session) Delay(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Resolve implements locator.Page. A clean miss returns (nil, nil); only
// malformed locators are errors, so Set fallback keeps working.
func (s *Session) Resolve(ctx context.Context, loc locator.Locator) (locator.Element, error) {
	findCtx, cancel := context.WithTimeout(ctx, elementFindTO)
	defer cancel()
	page := s.page.Context(findCtx).Sleeper(rod.NotFoundSleeper)

	var el *rod.Element
	var err error
	switch loc.Kind {
	case locator.CSS:
		el, err = page.Element(loc.Expr)
	case locator.XPath:
		el, err = page.ElementX(loc.Expr)
	case locator.Text:
		el, err = page.ElementR(loc.Expr, loc.Pattern)
	default:
		return nil, fmt.Errorf("unsupported locator kind %q", loc.Kind)
	}
	if err != nil {
		if errors.Is(err, &rod.ElementNotFoundError{}) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil //nolint:nilnil // clean miss, not an error
		}
		return nil, fmt.Errorf("resolving %s locator %q: %w", loc.Kind, loc.Expr, err)
	}
	return &element{el: el}, nil
}

// ResolveAll implements locator.Page. Text locators are not supported for
// list resolution; no Set uses them that way.
func (s *Session) ResolveAll(ctx context.Context, loc locator.Locator, limit int) ([]locator.Element, error) {
	page := s.page.Context(ctx)

	var els rod.Elements
	var err error
	switch loc.Kind {
	case locator.CSS:
		els, err = page.Elements(loc.Expr)
	case locator.XPath:
		els, err = page.ElementsX(loc.Expr)
	default:
		return nil, fmt.Errorf("unsupported locator kind %q for list resolution", loc.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving %s locator %q: %w", loc.Kind, loc.Expr, err)
	}

	if limit > 0 && len(els) > limit {
		els = els[:limit]
	}
	out := make([]locator.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

// Eval implements locator.Page.
func (s *Session) Eval(ctx context.Context, js string) (string, error) {
	obj, err := s.page.Context(ctx).Eval(js)
	if err != nil {
		return "", fmt.Errorf("evaluating script: %w", err)
	}
	return obj.Value.Str(), nil
}

// URL implements locator.Page.
func (s *Session) URL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Close shuts down the tab and the Chromium process.
func (s *Session) Close() {
	if s.router != nil {
		_ = s.router.Stop() //nolint:errcheck // best-effort shutdown
	}
	_ = s.page.Close()    //nolint:errcheck // best-effort shutdown
	_ = s.browser.Close() //nolint:errcheck // best-effort shutdown
}

// element adapts a rod element to locator.Element.
type element struct {
	el *rod.Element
}

func (e *element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *element) Attr(ctx context.Context, name string) (string, error) {
	val, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}
	return *val, nil
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *element) Click(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.ScrollIntoView(); err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *element) Input(ctx context.Context, text string) error {
	return e.el.Context(ctx).Input(text)
}

func (e *element) Clear(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Type(input.Backspace)
}

func (e *element) SetFiles(ctx context.Context, paths []string) error {
	return e.el.Context(ctx).SetFiles(paths)
}
