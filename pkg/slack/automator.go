package slack

import (
	"time"

	"github.com/entrhq/slackpost/pkg/browser"
)

// Selectors and sentinel text matched against the Slack web client.
const (
	LoginMarkerSelector  = ".p-ia__nav__user"
	ChannelTitleSelector = ".p-view_header__channel_title"
	UnknownChannelTitle  = "unknown-channel"
	MessageInputSelector = "div.ql-editor"
	SendButtonSelector   = "button[data-qa='texty_send_button']"
)

// Default timings.
const (
	DefaultLoginTimeout = 30 * time.Second
	DefaultPostTimeout  = 30 * time.Second
	DefaultSettleDelay  = 10 * time.Second
)

// CookieStore persists the browser's cookie set between runs.
type CookieStore interface {
	Save(cookies []browser.Cookie) error
	Load() ([]browser.Cookie, error)
}

// Logger receives progress messages. *logging.Logger satisfies it.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}

// Automator drives one browser session against one workspace.
type Automator struct {
	driver       browser.Driver
	store        CookieStore
	workspaceURL string
	settleDelay  time.Duration
	logger       Logger
}

// Option configures an Automator.
type Option func(*Automator)

// WithSettleDelay sets the fixed pause after pressing send.
func WithSettleDelay(d time.Duration) Option {
	return func(a *Automator) {
		a.settleDelay = d
	}
}

// WithLogger sets the progress logger.
func WithLogger(l Logger) Option {
	return func(a *Automator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAutomator creates an automator for workspaceURL. The workspace URL is
// not validated here; the post flow calls ValidateWorkspaceURL first.
func NewAutomator(driver browser.Driver, store CookieStore, workspaceURL string, opts ...Option) *Automator {
	a := &Automator{
		driver:       driver,
		store:        store,
		workspaceURL: workspaceURL,
		settleDelay:  DefaultSettleDelay,
		logger:       nopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WorkspaceURL returns the workspace the automator targets.
func (a *Automator) WorkspaceURL() string {
	return a.workspaceURL
}
