// Package locator resolves ranked lists of element locators against a page.
//
// Target markup is vendor-controlled and versioned outside this module, so
// no single selector is trusted to stay valid. Every logical element is
// described by a Set: 2-5 alternates ordered most-specific first, spanning
// markup eras and locales. ResolveFirst walks the set in order and a broken
// candidate never blocks fallback to a working one.
package locator

import (
	"context"
	"strings"
	"time"
)

// DefaultPollInterval is the polling cadence for Await and Poll.
const DefaultPollInterval = 200 * time.Millisecond

// Kind selects the resolution strategy for a Locator.
type Kind string

// Locator kinds.
const (
	CSS   Kind = "css"   // CSS selector
	XPath Kind = "xpath" // XPath expression
	Text  Kind = "text"  // CSS scope + text regexp (for label-matched elements)
)

// Locator identifies a specific element on a page.
type Locator struct {
	Kind    Kind
	Expr    string // CSS selector or XPath expression
	Pattern string // text regexp, Kind Text only
}

// Css builds a CSS locator.
func Css(expr string) Locator { return Locator{Kind: CSS, Expr: expr} }

// Xpath builds an XPath locator.
func Xpath(expr string) Locator { return Locator{Kind: XPath, Expr: expr} }

// ByText builds a locator matching elements under a CSS scope whose text
// matches pattern. Used for bilingual label matching.
func ByText(expr, pattern string) Locator { return Locator{Kind: Text, Expr: expr, Pattern: pattern} }

// Set is a ranked fallback chain of locators, most-specific first.
type Set []Locator

// Page is the page-execution bridge: the subset of a rendered browser page
// that extractors and the publish state machine need. Implementations must
// be safe for sequential use by one run at a time; the engine never issues
// concurrent calls against one Page.
type Page interface {
	// Resolve returns the first element matched by loc, or ok=false when
	// nothing matches. A malformed or unsupported locator is reported as
	// an error so callers can distinguish it from a clean miss.
	Resolve(ctx context.Context, loc Locator) (Element, error)
	// ResolveAll returns up to limit elements matched by loc.
	ResolveAll(ctx context.Context, loc Locator, limit int) ([]Element, error)
	// Eval runs a JavaScript expression in the page and returns its
	// string-converted result.
	Eval(ctx context.Context, js string) (string, error)
	// URL returns the page's current URL.
	URL() string
}

// Element is a handle to one resolved page element.
type Element interface {
	Text(ctx context.Context) (string, error)
	Attr(ctx context.Context, name string) (string, error)
	Visible(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	// Input focuses the element and types text into it.
	Input(ctx context.Context, text string) error
	// Clear empties an editable element.
	Clear(ctx context.Context) error
	// SetFiles assigns local file paths to a native file input.
	SetFiles(ctx context.Context, paths []string) error
}

// ResolveFirst resolves set against page, trying candidates in order and
// returning the first match. Per-candidate resolution errors are swallowed:
// a locator the page rejects must not block fallback to a working one.
func ResolveFirst(ctx context.Context, page Page, set Set) (Element, bool) {
	for _, loc := range set {
		el, err := page.Resolve(ctx, loc)
		if err != nil {
			continue
		}
		if el != nil {
			return el, true
		}
	}
	return nil, false
}

// Await polls ResolveFirst until a match appears or timeout elapses.
// Timeout is not an error: callers decide whether absence is significant.
func Await(ctx context.Context, page Page, set Set, timeout time.Duration) (Element, bool) {
	var found Element
	ok := Poll(ctx, timeout, DefaultPollInterval, func() bool {
		el, hit := ResolveFirst(ctx, page, set)
		if hit {
			found = el
		}
		return hit
	})
	return found, ok
}

// TextOf resolves set and returns the element's trimmed text, or "" when
// nothing matches or the read fails. Soft absence is never an error.
func TextOf(ctx context.Context, page Page, set Set) string {
	el, ok := ResolveFirst(ctx, page, set)
	if !ok {
		return ""
	}
	text, err := el.Text(ctx)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// AttrOf resolves set and returns the named attribute, or "" on any miss.
func AttrOf(ctx context.Context, page Page, set Set, name string) string {
	el, ok := ResolveFirst(ctx, page, set)
	if !ok {
		return ""
	}
	val, err := el.Attr(ctx, name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(val)
}

// Exists reports whether any candidate in set currently resolves.
func Exists(ctx context.Context, page Page, set Set) bool {
	_, ok := ResolveFirst(ctx, page, set)
	return ok
}

// Poll invokes fn every interval until it returns true, timeout elapses,
// or ctx is cancelled. It reports whether fn succeeded. fn runs once
// immediately, so a condition that already holds never waits.
func Poll(ctx context.Context, timeout, interval time.Duration, fn func() bool) bool {
	if fn() {
		return true
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-tick.C:
			if fn() {
				return true
			}
		}
	}
}
