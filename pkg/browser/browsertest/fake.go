// Package browsertest provides an in-memory browser.Driver and launcher for
// tests that exercise the Slack automation without a real browser.
package browsertest

import (
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/slackpost/pkg/browser"
)

// Page describes what the fake renders after navigating to a URL.
type Page struct {
	// Elements maps a selector to its rendered text. A selector that is
	// present (even with empty text) is found by WaitForSelector and Text.
	Elements map[string]string
}

// Driver is a scripted browser.Driver. Pages keyed by URL are rendered on
// Navigate; Reload re-renders the current URL. After Reload the
// LoggedInPage (if set) is rendered instead when the context holds a cookie
// named SessionCookie, which lets tests model a restored session.
type Driver struct {
	mu sync.Mutex

	Pages map[string]Page

	// SessionCookie and LoggedInPage model cookie-based login.
	SessionCookie string
	LoggedInPage  *Page

	// Errors forces a method ("Navigate", "Click", ...) to fail.
	Errors map[string]error

	// Calls records every method call in order, e.g. "Navigate https://..".
	Calls []string

	// Typed collects text sent with Type, keyed by selector.
	Typed map[string][]string

	CurrentURL string
	Closed     bool

	cookies []browser.Cookie
	current Page
}

var _ browser.Driver = (*Driver)(nil)

// NewDriver returns an empty fake driver.
func NewDriver() *Driver {
	return &Driver{
		Pages:  make(map[string]Page),
		Errors: make(map[string]error),
		Typed:  make(map[string][]string),
	}
}

// SetCookies replaces the cookies held by the fake browser context.
func (d *Driver) SetCookies(cookies []browser.Cookie) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cookies = append([]browser.Cookie(nil), cookies...)
}

func (d *Driver) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	d.Calls = append(d.Calls, call)

	name := call
	for i, r := range call {
		if r == ' ' {
			name = call[:i]
			break
		}
	}
	return d.Errors[name]
}

func (d *Driver) render(url string) {
	d.CurrentURL = url
	d.current = d.Pages[url]
}

func (d *Driver) hasSessionCookie() bool {
	if d.SessionCookie == "" {
		return false
	}
	for _, c := range d.cookies {
		if c.Name == d.SessionCookie {
			return true
		}
	}
	return false
}

// Navigate renders the page registered for url.
func (d *Driver) Navigate(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Navigate %s", url); err != nil {
		return err
	}
	d.render(url)
	return nil
}

// Reload re-renders the current URL, switching to LoggedInPage when the
// session cookie is present.
func (d *Driver) Reload() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Reload"); err != nil {
		return err
	}
	d.render(d.CurrentURL)
	if d.LoggedInPage != nil && d.hasSessionCookie() {
		d.current = *d.LoggedInPage
	}
	return nil
}

// WaitForSelector succeeds when selector is on the current page and
// returns browser.ErrTimeout otherwise, without sleeping.
func (d *Driver) WaitForSelector(selector string, timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("WaitForSelector %s", selector); err != nil {
		return err
	}
	if _, ok := d.current.Elements[selector]; !ok {
		return fmt.Errorf("wait for %q after %s: %w", selector, timeout, browser.ErrTimeout)
	}
	return nil
}

// Text returns the text registered for selector on the current page.
func (d *Driver) Text(selector string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Text %s", selector); err != nil {
		return "", err
	}
	text, ok := d.current.Elements[selector]
	if !ok {
		return "", fmt.Errorf("no element matching %q: %w", selector, browser.ErrElementNotFound)
	}
	return text, nil
}

// Type records text for selector.
func (d *Driver) Type(selector, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Type %s", selector); err != nil {
		return err
	}
	if _, ok := d.current.Elements[selector]; !ok {
		return fmt.Errorf("no element matching %q: %w", selector, browser.ErrElementNotFound)
	}
	d.Typed[selector] = append(d.Typed[selector], text)
	return nil
}

// Click fails with browser.ErrElementNotFound when selector is absent.
func (d *Driver) Click(selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Click %s", selector); err != nil {
		return err
	}
	if _, ok := d.current.Elements[selector]; !ok {
		return fmt.Errorf("no element matching %q: %w", selector, browser.ErrElementNotFound)
	}
	return nil
}

// URL returns the last rendered address. It is not recorded in Calls.
func (d *Driver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.CurrentURL
}

// Cookies returns a copy of the context cookies.
func (d *Driver) Cookies() ([]browser.Cookie, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Cookies"); err != nil {
		return nil, err
	}
	return append([]browser.Cookie(nil), d.cookies...), nil
}

// AddCookies appends cookies to the context.
func (d *Driver) AddCookies(cookies []browser.Cookie) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("AddCookies %d", len(cookies)); err != nil {
		return err
	}
	d.cookies = append(d.cookies, cookies...)
	return nil
}

// Close marks the driver closed.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Close"); err != nil {
		return err
	}
	d.Closed = true
	return nil
}

// Launcher hands out a fixed Driver and records its lifecycle.
type Launcher struct {
	Driver *Driver

	// LaunchErr makes Launch fail.
	LaunchErr error

	Launches    int
	Shutdowns   int
	LastOptions browser.SessionOptions
}

// NewLauncher returns a launcher serving d.
func NewLauncher(d *Driver) *Launcher {
	return &Launcher{Driver: d}
}

// Launch returns the fake driver.
func (l *Launcher) Launch(opts browser.SessionOptions) (browser.Driver, error) {
	l.Launches++
	l.LastOptions = opts
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	return l.Driver, nil
}

// Shutdown closes the fake driver.
func (l *Launcher) Shutdown() error {
	l.Shutdowns++
	if l.Driver != nil && l.Launches > 0 {
		return l.Driver.Close()
	}
	return nil
}
