// Package publish drives the X compose surface through an ordered sequence
// of fallible steps. There is no authoritative success signal from the
// site, so completion is detected heuristically and every step reports a
// precise failure code. Outcomes are terminal: a failed run is never
// resumed, the caller issues a new request instead.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/codeGROOVE-dev/socialite/locator"
	"github.com/codeGROOVE-dev/socialite/twitter"
)

// Step identifies the stage at which a publish run failed.
type Step string

// Publish steps, in execution order.
const (
	StepAccountVerification Step = "account_verification"
	StepValidation          Step = "validation"
	StepMediaUpload         Step = "media_upload"
	StepTextFill            Step = "text_fill"
	StepPostClick           Step = "post_click"
	StepConfirmation        Step = "confirmation"
)

// verifyPrefixLen is how much of the intended text the read-back check
// requires. A full comparison is too brittle: the editor rewrites
// whitespace and link entities.
const verifyPrefixLen = 20

// Attachment is one media file to upload, in request order.
type Attachment struct {
	Name string
	Data []byte
}

// Request describes one publish run.
type Request struct {
	Text string
	// Media attachments are uploaded in order before the text is filled.
	Media []Attachment
	// ExpectedHandle, when set, must match the signed-in account. This
	// guards the single most costly failure mode: posting from the wrong
	// account.
	ExpectedHandle string
	// AutoSubmit false stops after text fill, leaving submission to a human.
	AutoSubmit bool
}

// Outcome is the terminal result of a publish run. Success and FailedStep
// are mutually exclusive; Unconfirmed marks a confirmation timeout where
// the post may in fact have landed.
type Outcome struct {
	Success              bool
	FailedStep           Step `json:",omitempty"`
	Unconfirmed          bool `json:",omitempty"`
	RequiresManualSubmit bool `json:",omitempty"`
	Message              string
	RunID                string
}

// Compose-surface locators. X revises these often; data-testid hooks
// first, broad fallbacks last.
var (
	composerSet = locator.Set{
		locator.Css(`[data-testid="tweetTextarea_0"]`),
		locator.Css(`div[role="textbox"][data-testid^="tweetTextarea"]`),
		locator.Css(`div[contenteditable="true"][role="textbox"]`),
	}
	fileInputSet = locator.Set{
		locator.Css(`input[data-testid="fileInput"]`),
		locator.Css(`input[type="file"][accept*="image"]`),
		locator.Css(`input[type="file"]`),
	}
	submitSet = locator.Set{
		locator.Css(`[data-testid="tweetButtonInline"]`),
		locator.Css(`[data-testid="tweetButton"]`),
		locator.ByText(`main button`, `^(Post|Tweet|نشر)$`),
	}
	// A bare disabled attribute serializes as disabled="", which an
	// attribute read cannot tell apart from absence. Selector presence can.
	submitDisabledSet = locator.Set{
		locator.Css(`[data-testid="tweetButtonInline"][disabled]`),
		locator.Css(`[data-testid="tweetButton"][disabled]`),
		locator.Css(`[data-testid="tweetButtonInline"][aria-disabled="true"]`),
		locator.Css(`[data-testid="tweetButton"][aria-disabled="true"]`),
	}
	profileLinkSet = locator.Set{
		locator.Css(`[data-testid="AppTabBar_Profile_Link"]`),
		locator.Css(`nav a[aria-label="Profile"]`),
		locator.Css(`nav a[aria-label="الملف الشخصي"]`),
	}
	switcherSet = locator.Set{
		locator.Css(`[data-testid="SideNav_AccountSwitcher_Button"]`),
	}
	// Success phrasing varies by locale; the toast element itself is the
	// primary signal.
	toastSet = locator.Set{
		locator.ByText(`[data-testid="toast"]`, `Your post was sent|Your Tweet was sent|تم إرسال`),
		locator.Css(`[data-testid="toast"] a[href*="/status/"]`),
	}
)

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithSettleDelay overrides the post-upload settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(p *Publisher) { p.settle = d }
}

// WithConfirmTimeout overrides the confirmation polling window.
func WithConfirmTimeout(d time.Duration) Option {
	return func(p *Publisher) { p.confirmTimeout = d }
}

// Publisher runs publish requests against an already-loaded compose page.
// One Publisher drives one page; runs must not overlap.
type Publisher struct {
	page           locator.Page
	logger         *slog.Logger
	settle         time.Duration
	confirmTimeout time.Duration
}

// New creates a Publisher for the given page bridge.
func New(page locator.Page, opts ...Option) *Publisher {
	p := &Publisher{
		page:           page,
		logger:         slog.Default(),
		settle:         2 * time.Second,
		confirmTimeout: 12 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the publish sequence: account verification, validation,
// media upload, text fill, submit click, confirmation. Each step is
// independently failable and later steps never run after a failure.
func (p *Publisher) Run(ctx context.Context, req Request) Outcome {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	fail := func(step Step, format string, args ...any) Outcome {
		msg := fmt.Sprintf(format, args...)
		logger.Warn("publish step failed", "step", string(step), "reason", msg)
		return Outcome{FailedStep: step, Message: msg, RunID: runID}
	}

	if req.ExpectedHandle != "" {
		handle, ok := p.signedInHandle(ctx)
		if !ok {
			return fail(StepAccountVerification, "could not determine the signed-in account")
		}
		if !sameHandle(handle, req.ExpectedHandle) {
			return fail(StepAccountVerification, "signed in as @%s, expected @%s",
				handle, strings.TrimPrefix(req.ExpectedHandle, "@"))
		}
		logger.Debug("account verified", "handle", handle)
	}

	if req.Text == "" && len(req.Media) == 0 {
		return fail(StepValidation, "nothing to publish: no text and no media")
	}
	if n := utf8.RuneCountInString(req.Text); n > twitter.MaxPostLength {
		return fail(StepValidation, "text is %d characters, platform limit is %d", n, twitter.MaxPostLength)
	}

	if len(req.Media) > 0 {
		if err := p.uploadMedia(ctx, req.Media); err != nil {
			return fail(StepMediaUpload, "%v", err)
		}
		logger.Debug("media attached", "count", len(req.Media))
	}

	if err := p.fillText(ctx, req.Text); err != nil {
		return fail(StepTextFill, "%v", err)
	}
	logger.Debug("text filled", "length", utf8.RuneCountInString(req.Text))

	if !req.AutoSubmit {
		return Outcome{
			Success:              true,
			RequiresManualSubmit: true,
			Message:              "content staged, waiting for manual submit",
			RunID:                runID,
		}
	}

	if err := p.clickSubmit(ctx); err != nil {
		return fail(StepPostClick, "%v", err)
	}

	signal, confirmed := p.awaitConfirmation(ctx)
	if !confirmed {
		logger.Warn("publish unconfirmed", "window", p.confirmTimeout.String())
		return Outcome{
			FailedStep:  StepConfirmation,
			Unconfirmed: true,
			Message:     "no completion signal within the confirmation window; the post may still have been published",
			RunID:       runID,
		}
	}
	logger.Info("publish confirmed", "signal", signal)
	return Outcome{Success: true, Message: "published (" + signal + ")", RunID: runID}
}

// signedInHandle extracts the authenticated account's handle via fallback
// locators: profile nav link href, account-switcher label, then page URL.
func (p *Publisher) signedInHandle(ctx context.Context) (string, bool) {
	if href := locator.AttrOf(ctx, p.page, profileLinkSet, "href"); href != "" {
		if h := strings.Trim(strings.TrimPrefix(urlPath(href), "/"), "/"); h != "" {
			return h, true
		}
	}
	if el, ok := locator.ResolveFirst(ctx, p.page, switcherSet); ok {
		if label, err := el.Attr(ctx, "aria-label"); err == nil {
			if h := handleFromLabel(label); h != "" {
				return h, true
			}
		}
		if text, err := el.Text(ctx); err == nil {
			if h := handleFromLabel(text); h != "" {
				return h, true
			}
		}
	}
	return "", false
}

func (p *Publisher) uploadMedia(ctx context.Context, media []Attachment) error {
	input, ok := locator.ResolveFirst(ctx, p.page, fileInputSet)
	if !ok {
		return fmt.Errorf("file input not found on compose surface")
	}

	dir, err := os.MkdirTemp("", "socialite-media-")
	if err != nil {
		return fmt.Errorf("staging media: %w", err)
	}
	defer os.RemoveAll(dir) //nolint:errcheck // best-effort cleanup

	paths := make([]string, 0, len(media))
	for i, m := range media {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("attachment-%d", i)
		}
		path := filepath.Join(dir, filepath.Base(name))
		if err := os.WriteFile(path, m.Data, 0o600); err != nil {
			return fmt.Errorf("staging media %q: %w", name, err)
		}
		paths = append(paths, path)
	}
	if err := input.SetFiles(ctx, paths); err != nil {
		return fmt.Errorf("assigning media to file input: %w", err)
	}

	// Client-side upload processing has no completion event; a settle
	// delay is the only option.
	wait(ctx, p.settle)
	return nil
}

func (p *Publisher) fillText(ctx context.Context, text string) error {
	editor, ok := locator.Await(ctx, p.page, composerSet, 5*time.Second)
	if !ok {
		return fmt.Errorf("compose editor not found")
	}
	if err := editor.Clear(ctx); err != nil {
		return fmt.Errorf("clearing editor: %w", err)
	}
	if err := editor.Input(ctx, text); err != nil {
		// Some editor builds reject synthetic typing; fall back to direct
		// value assignment in the page.
		if _, evalErr := p.page.Eval(ctx, setComposerTextJS(text)); evalErr != nil {
			return fmt.Errorf("inserting text: %w", err)
		}
	}

	wait(ctx, 300*time.Millisecond)

	// Read back and verify. The editor is the only ground truth available.
	got, err := editor.Text(ctx)
	if err != nil {
		return fmt.Errorf("reading back editor text: %w", err)
	}
	if want := prefix(text, verifyPrefixLen); want != "" && !strings.Contains(got, want) {
		return fmt.Errorf("editor verification failed: text does not contain %q", want)
	}
	return nil
}

func (p *Publisher) clickSubmit(ctx context.Context) error {
	var button locator.Element
	enabled := locator.Poll(ctx, 3*time.Second, locator.DefaultPollInterval, func() bool {
		el, ok := locator.ResolveFirst(ctx, p.page, submitSet)
		if !ok {
			return false
		}
		if locator.Exists(ctx, p.page, submitDisabledSet) {
			return false
		}
		if disabled, err := el.Attr(ctx, "disabled"); err == nil && disabled != "" {
			return false
		}
		if aria, err := el.Attr(ctx, "aria-disabled"); err == nil && aria == "true" {
			return false
		}
		button = el
		return true
	})
	if !enabled {
		return fmt.Errorf("submit control never became enabled")
	}
	if err := button.Click(ctx); err != nil {
		return fmt.Errorf("clicking submit: %w", err)
	}
	return nil
}

// awaitConfirmation polls for either an explicit success toast or the
// composer disappearing (the page closing the composer is accepted as an
// implicit success signal in the absence of an explicit one).
func (p *Publisher) awaitConfirmation(ctx context.Context) (signal string, ok bool) {
	confirmed := locator.Poll(ctx, p.confirmTimeout, 500*time.Millisecond, func() bool {
		if locator.Exists(ctx, p.page, toastSet) {
			signal = "success toast"
			return true
		}
		if !locator.Exists(ctx, p.page, composerSet) {
			signal = "composer closed"
			return true
		}
		return false
	})
	return signal, confirmed
}

func sameHandle(a, b string) bool {
	return strings.EqualFold(strings.TrimPrefix(a, "@"), strings.TrimPrefix(b, "@"))
}

func handleFromLabel(s string) string {
	if i := strings.Index(s, "@"); i >= 0 {
		rest := s[i+1:]
		if j := strings.IndexAny(rest, " \t\n)"); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}
	return ""
}

// urlPath strips scheme and host from an href that may be absolute.
func urlPath(href string) string {
	if i := strings.Index(href, "://"); i >= 0 {
		rest := href[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			return rest[j:]
		}
		return "/"
	}
	return href
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

func setComposerTextJS(text string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(text)
	return `(() => {
  const el = document.querySelector('[data-testid="tweetTextarea_0"], div[role="textbox"][contenteditable="true"]');
  if (!el) return "";
  el.focus();
  document.execCommand("selectAll", false, null);
  document.execCommand("insertText", false, "` + escaped + `");
  el.dispatchEvent(new Event("input", {bubbles: true}));
  el.dispatchEvent(new Event("change", {bubbles: true}));
  return el.textContent;
})()`
}

// wait sleeps for d or until ctx is cancelled.
func wait(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
