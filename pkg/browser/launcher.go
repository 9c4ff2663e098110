package browser

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// ErrAlreadyLaunched is returned when Launch is called while a session is
// still open. A Launcher owns at most one browser at a time.
var ErrAlreadyLaunched = errors.New("browser session already launched")

// Launcher starts Playwright and launches the single browser session used by
// a run.
type Launcher struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	session     *Session
	initialized bool

	// SkipInstall skips downloading the Playwright driver and browsers.
	// Useful when they are provisioned out of band (CI images).
	SkipInstall bool

	// Output receives Playwright install/driver output. Defaults to
	// io.Discard.
	Output io.Writer
}

// NewLauncher creates a new launcher.
func NewLauncher() *Launcher {
	return &Launcher{Output: io.Discard}
}

// Initialize installs (unless SkipInstall) and starts the Playwright driver.
// Launch calls it on demand; calling it twice is a no-op.
func (l *Launcher) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initializeLocked()
}

func (l *Launcher) initializeLocked() error {
	if l.initialized {
		return nil
	}

	out := l.Output
	if out == nil {
		out = io.Discard
	}
	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   out,
		Stderr:   out,
	}

	if !l.SkipInstall {
		if err := playwright.Install(opts); err != nil {
			return fmt.Errorf("%w: failed to install playwright: %w", ErrDriver, err)
		}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("%w: failed to start playwright: %w", ErrDriver, err)
	}

	l.playwright = pw
	l.initialized = true
	return nil
}

// Launch starts a browser with one context and one page and returns it as a
// Driver.
func (l *Launcher) Launch(opts SessionOptions) (Driver, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.session != nil && !l.session.closed {
		return nil, ErrAlreadyLaunched
	}

	if err := l.initializeLocked(); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.Channel != "" {
		launchOpts.Channel = playwright.String(opts.Channel)
	}
	browser, err := l.playwright.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, classify("launch browser", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		_ = browser.Close()
		return nil, classify("create context", err)
	}

	page, err := context.NewPage()
	if err != nil {
		_ = context.Close()
		_ = browser.Close()
		return nil, classify("create page", err)
	}

	page.SetDefaultTimeout(*milliseconds(opts.Timeout))

	l.session = &Session{
		Browser:    browser,
		Context:    context,
		Page:       page,
		CurrentURL: "about:blank",
	}
	return l.session, nil
}

// Shutdown closes the session, if any, and stops Playwright. It is safe to
// call on a launcher that never launched.
func (l *Launcher) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	if l.session != nil {
		if err := l.session.Close(); err != nil {
			errs = append(errs, err)
		}
		l.session = nil
	}

	if l.initialized && l.playwright != nil {
		if err := l.playwright.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("%w: failed to stop playwright: %w", ErrDriver, err))
		}
		l.playwright = nil
		l.initialized = false
	}

	return errors.Join(errs...)
}
