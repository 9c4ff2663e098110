package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Cookie is a single browser cookie captured from, or restored into, a
// browser context.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string

	// Expires is a unix timestamp in seconds. -1 marks a session cookie.
	Expires float64

	HttpOnly bool
	Secure   bool

	// SameSite is "Strict", "Lax", "None" or empty when unset.
	SameSite string
}

// SessionOptions configures the browser launched by a Launcher.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout is the default timeout for page operations
	Timeout time.Duration

	// Channel selects a branded browser build ("chrome", "msedge").
	// Empty uses the bundled Chromium.
	Channel string
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Default values for session options.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

func (o SessionOptions) withDefaults() SessionOptions {
	if o.Viewport == nil {
		o.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// fromPlaywrightCookie converts a cookie read from a browser context.
func fromPlaywrightCookie(c playwright.Cookie) Cookie {
	cookie := Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  c.Expires,
		HttpOnly: c.HttpOnly,
		Secure:   c.Secure,
	}
	if c.SameSite != nil {
		cookie.SameSite = string(*c.SameSite)
	}
	return cookie
}

// toOptionalCookie converts a cookie into the form AddCookies accepts.
// Playwright requires either a URL or a domain/path pair; a stored cookie
// always carries the latter.
func toOptionalCookie(c Cookie) playwright.OptionalCookie {
	path := c.Path
	if path == "" {
		path = "/"
	}

	opt := playwright.OptionalCookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   playwright.String(c.Domain),
		Path:     playwright.String(path),
		HttpOnly: playwright.Bool(c.HttpOnly),
		Secure:   playwright.Bool(c.Secure),
	}
	if c.Expires > 0 {
		opt.Expires = playwright.Float(c.Expires)
	}
	if c.SameSite != "" {
		sameSite := playwright.SameSiteAttribute(c.SameSite)
		opt.SameSite = &sameSite
	}
	return opt
}

func milliseconds(d time.Duration) *float64 {
	ms := float64(d) / float64(time.Millisecond)
	return &ms
}
