// Package pagetest provides an in-memory fake page-execution bridge for
// extractor and publish tests. No browser involved.
package pagetest

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/socialite/locator"
)

// Key returns the map key a Locator resolves under in a fake Page.
func Key(loc locator.Locator) string {
	k := string(loc.Kind) + ":" + loc.Expr
	if loc.Pattern != "" {
		k += "~" + loc.Pattern
	}
	return k
}

// Page is a fake locator.Page backed by a map of locator keys to elements.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Page struct {
	Address string
	// Elements maps Key(loc) to the element that locator resolves to.
	Elements map[string]*Element
	// Lists maps Key(loc) to elements returned by ResolveAll.
	Lists map[string][]*Element
	// EvalResults maps a JavaScript expression to its result.
	EvalResults map[string]string

	// Call counters, for asserting that steps were never reached.
	ResolveCalls int
	EvalCalls    int
}

// New creates an empty fake page.
func New(address string) *Page {
	return &Page{
		Address:     address,
		Elements:    make(map[string]*Element),
		Lists:       make(map[string][]*Element),
		EvalResults: make(map[string]string),
	}
}

// Set registers an element under the given locator.
func (p *Page) Set(loc locator.Locator, el *Element) {
	p.Elements[Key(loc)] = el
}

// SetList registers a ResolveAll result under the given locator.
func (p *Page) SetList(loc locator.Locator, els []*Element) {
	p.Lists[Key(loc)] = els
}

// Remove drops an element, simulating markup that disappeared.
func (p *Page) Remove(loc locator.Locator) {
	delete(p.Elements, Key(loc))
}

// Resolve implements locator.Page. An empty expression is reported as a
// malformed locator; text locators additionally require a valid pattern
// that matches the element's text.
func (p *Page) Resolve(_ context.Context, loc locator.Locator) (locator.Element, error) {
	p.ResolveCalls++
	if loc.Expr == "" {
		return nil, errors.New("pagetest: empty locator expression")
	}
	el, ok := p.Elements[Key(loc)]
	if !ok || el.Gone {
		// A text locator may also be registered under its bare CSS scope.
		if loc.Kind == locator.Text {
			scoped, found := p.Elements[Key(locator.Css(loc.Expr))]
			if found && !scoped.Gone {
				re, err := regexp.Compile(loc.Pattern)
				if err != nil {
					return nil, err
				}
				if re.MatchString(scoped.TextValue) {
					return scoped, nil
				}
			}
		}
		return nil, nil //nolint:nilnil // clean miss, not an error
	}
	return el, nil
}

// ResolveAll implements locator.Page.
func (p *Page) ResolveAll(_ context.Context, loc locator.Locator, limit int) ([]locator.Element, error) {
	p.ResolveCalls++
	els := p.Lists[Key(loc)]
	if limit > 0 && len(els) > limit {
		els = els[:limit]
	}
	out := make([]locator.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

// Eval implements locator.Page.
func (p *Page) Eval(_ context.Context, js string) (string, error) {
	p.EvalCalls++
	if res, ok := p.EvalResults[js]; ok {
		return res, nil
	}
	return "", nil
}

// URL implements locator.Page.
func (p *Page) URL() string { return p.Address }

// Element is a fake locator.Element.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Element struct {
	TextValue string
	Attrs     map[string]string
	Hidden    bool
	Gone      bool // element no longer resolvable

	Clicks  int
	Inputs  []string
	Files   []string
	Cleared int

	// Optional hooks for simulating page reactions.
	OnClick func()
	OnInput func(text string)

	// Forced errors.
	InputErr error
	ClickErr error
	FilesErr error
}

// Text implements locator.Element.
func (e *Element) Text(context.Context) (string, error) { return e.TextValue, nil }

// Attr implements locator.Element.
func (e *Element) Attr(_ context.Context, name string) (string, error) {
	if e.Attrs == nil {
		return "", nil
	}
	return e.Attrs[name], nil
}

// Visible implements locator.Element.
func (e *Element) Visible(context.Context) (bool, error) { return !e.Hidden && !e.Gone, nil }

// Click implements locator.Element.
func (e *Element) Click(context.Context) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

// Input implements locator.Element. The typed text is appended to the
// element's text, mirroring how a real editor accumulates keystrokes.
func (e *Element) Input(_ context.Context, text string) error {
	if e.InputErr != nil {
		return e.InputErr
	}
	e.Inputs = append(e.Inputs, text)
	e.TextValue += text
	if e.OnInput != nil {
		e.OnInput(text)
	}
	return nil
}

// Clear implements locator.Element.
func (e *Element) Clear(context.Context) error {
	e.Cleared++
	e.TextValue = ""
	return nil
}

// SetFiles implements locator.Element.
func (e *Element) SetFiles(_ context.Context, paths []string) error {
	if e.FilesErr != nil {
		return e.FilesErr
	}
	e.Files = append(e.Files, paths...)
	return nil
}

// TextContains reports whether the element's text contains s. Helper for
// read-back assertions in tests.
func (e *Element) TextContains(s string) bool { return strings.Contains(e.TextValue, s) }

// Nav is a fake navigation service. It satisfies the engine's Navigator
// contract without importing the root package.
type Nav struct {
	Visited []string
	Delays  int
	// Err, when set, is returned by every Navigate call.
	Err error
	// OnNavigate, when set, runs after each successful navigation.
	OnNavigate func(url string)
}

// Navigate records the URL and returns Err if set.
func (n *Nav) Navigate(_ context.Context, url string) error {
	if n.Err != nil {
		return n.Err
	}
	n.Visited = append(n.Visited, url)
	if n.OnNavigate != nil {
		n.OnNavigate(url)
	}
	return nil
}

// Delay counts settle delays instead of sleeping.
func (n *Nav) Delay(context.Context, time.Duration) { n.Delays++ }
