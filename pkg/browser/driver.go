package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Driver is the browser automation boundary used by the Slack automation.
// Every call blocks until the browser finishes the operation.
type Driver interface {
	// Navigate loads url in the page and waits for the load event.
	Navigate(url string) error

	// Reload reloads the current page.
	Reload() error

	// WaitForSelector waits until an element matching selector is attached
	// to the DOM. It fails with ErrTimeout when the element does not appear
	// within timeout.
	WaitForSelector(selector string, timeout time.Duration) error

	// Text returns the rendered text of the first element matching
	// selector. It fails with ErrElementNotFound when nothing matches.
	Text(selector string) (string, error)

	// Type sends text as keystrokes to the first element matching
	// selector. It fails with ErrElementNotFound when nothing matches.
	Type(selector, text string) error

	// Click clicks the first element matching selector. It fails with
	// ErrElementNotFound when nothing matches.
	Click(selector string) error

	// URL returns the address of the current page.
	URL() string

	// Cookies returns every cookie held by the browser context.
	Cookies() ([]Cookie, error)

	// AddCookies adds cookies to the browser context.
	AddCookies(cookies []Cookie) error

	// Close releases the page, context and browser.
	Close() error
}

var (
	// ErrElementNotFound is returned when a selector matches nothing.
	ErrElementNotFound = errors.New("element not found")

	// ErrTimeout is returned when a wait or action exceeds its deadline.
	ErrTimeout = errors.New("browser operation timed out")

	// ErrDriver is returned for any other browser control failure.
	ErrDriver = errors.New("browser driver error")
)

// classify wraps a Playwright error with the matching sentinel.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDriver, err)
}
