package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session is a launched browser with one context and one page. It
// implements Driver.
type Session struct {
	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context holding the cookies
	Context playwright.BrowserContext

	// Page is the active page
	Page playwright.Page

	// CurrentURL is the URL of the current page
	CurrentURL string

	closed bool
}

var _ Driver = (*Session)(nil)

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string) error {
	_, err := s.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return classify(fmt.Sprintf("navigate to %s", url), err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// Reload reloads the current page.
func (s *Session) Reload() error {
	_, err := s.Page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return classify("reload", err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// WaitForSelector waits for an element to be attached to the DOM.
func (s *Session) WaitForSelector(selector string, timeout time.Duration) error {
	opts := playwright.PageWaitForSelectorOptions{
		State: playwright.WaitForSelectorStateAttached,
	}
	if timeout > 0 {
		opts.Timeout = milliseconds(timeout)
	}

	if _, err := s.Page.WaitForSelector(selector, opts); err != nil {
		return classify(fmt.Sprintf("wait for %q", selector), err)
	}
	return nil
}

// Text returns the trimmed inner text of the first matching element.
func (s *Session) Text(selector string) (string, error) {
	element, err := s.Page.QuerySelector(selector)
	if err != nil {
		return "", classify(fmt.Sprintf("query %q", selector), err)
	}
	if element == nil {
		return "", fmt.Errorf("no element matching %q: %w", selector, ErrElementNotFound)
	}

	text, err := element.InnerText()
	if err != nil {
		return "", classify(fmt.Sprintf("read text of %q", selector), err)
	}
	return strings.TrimSpace(text), nil
}

// first returns a locator for the first element matching selector, or
// ErrElementNotFound when there is none. Playwright actions wait for their
// target, so presence is checked up front.
func (s *Session) first(selector string) (playwright.Locator, error) {
	locator := s.Page.Locator(selector)
	count, err := locator.Count()
	if err != nil {
		return nil, classify(fmt.Sprintf("query %q", selector), err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no element matching %q: %w", selector, ErrElementNotFound)
	}
	return locator.First(), nil
}

// Type types text into the first matching element one key at a time, the
// way a user would. Rich text editors ignore Fill, so keystrokes are required.
func (s *Session) Type(selector, text string) error {
	target, err := s.first(selector)
	if err != nil {
		return err
	}

	if err := target.PressSequentially(text); err != nil {
		return classify(fmt.Sprintf("type into %q", selector), err)
	}
	return nil
}

// Click clicks the first element matching the selector.
func (s *Session) Click(selector string) error {
	target, err := s.first(selector)
	if err != nil {
		return err
	}

	if err := target.Click(); err != nil {
		return classify(fmt.Sprintf("click %q", selector), err)
	}

	// Update current URL in case click caused navigation
	s.CurrentURL = s.Page.URL()
	return nil
}

// URL returns the URL of the last page the session navigated to.
func (s *Session) URL() string {
	return s.CurrentURL
}

// Cookies returns all cookies of the session's browser context.
func (s *Session) Cookies() ([]Cookie, error) {
	raw, err := s.Context.Cookies()
	if err != nil {
		return nil, classify("read cookies", err)
	}

	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, fromPlaywrightCookie(c))
	}
	return cookies, nil
}

// AddCookies adds cookies to the session's browser context.
func (s *Session) AddCookies(cookies []Cookie) error {
	if len(cookies) == 0 {
		return nil
	}

	opts := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		opts = append(opts, toOptionalCookie(c))
	}

	if err := s.Context.AddCookies(opts); err != nil {
		return classify("add cookies", err)
	}
	return nil
}

// Close closes the page, context and browser. Safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.Page.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Context.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Browser.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: errors closing session: %v", ErrDriver, errs)
	}
	return nil
}
