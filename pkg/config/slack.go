package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDSlack is the identifier for the Slack settings section
	SectionIDSlack = "slack"

	defaultCookieFile   = "slack_cookies.gob"
	defaultLoginTimeout = 30 * time.Second
	defaultPostTimeout  = 30 * time.Second
	defaultSettleDelay  = 10 * time.Second
)

// SlackSection holds the workspace, session file and timing settings.
type SlackSection struct {
	WorkspaceURL    string        `json:"workspace_url"`
	CookieFile      string        `json:"cookie_file"`
	LoginTimeout    time.Duration `json:"login_timeout"`
	PostTimeout     time.Duration `json:"post_timeout"`
	SettleDelay     time.Duration `json:"settle_delay"`
	AllowedChannels []string      `json:"allowed_channels"`
	DeniedChannels  []string      `json:"denied_channels"`
	mu              sync.RWMutex
}

// NewSlackSection creates a Slack section with default settings.
func NewSlackSection() *SlackSection {
	s := &SlackSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *SlackSection) ID() string {
	return SectionIDSlack
}

// Title returns the section title.
func (s *SlackSection) Title() string {
	return "Slack Settings"
}

// Description returns the section description.
func (s *SlackSection) Description() string {
	return "Default workspace, saved session file, wait timeouts and channel allow/deny patterns."
}

// Data returns the current configuration data.
func (s *SlackSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"workspace_url":    s.WorkspaceURL,
		"cookie_file":      s.CookieFile,
		"login_timeout":    s.LoginTimeout.String(),
		"post_timeout":     s.PostTimeout.String(),
		"settle_delay":     s.SettleDelay.String(),
		"allowed_channels": append([]string(nil), s.AllowedChannels...),
		"denied_channels":  append([]string(nil), s.DeniedChannels...),
	}
}

// SetData updates the configuration from the provided data.
func (s *SlackSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for key, value := range data {
		switch key {
		case "workspace_url":
			s.WorkspaceURL, err = asString(key, value)
		case "cookie_file":
			s.CookieFile, err = asString(key, value)
		case "login_timeout":
			s.LoginTimeout, err = asDuration(key, value)
		case "post_timeout":
			s.PostTimeout, err = asDuration(key, value)
		case "settle_delay":
			s.SettleDelay, err = asDuration(key, value)
		case "allowed_channels":
			s.AllowedChannels, err = asStrings(key, value)
		case "denied_channels":
			s.DeniedChannels, err = asStrings(key, value)
		default:
			continue
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// Validate validates the current configuration. The workspace URL format
// is checked by the post flow, not here, so an empty default is valid.
func (s *SlackSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.CookieFile == "" {
		return fmt.Errorf("cookie_file must not be empty")
	}
	if s.LoginTimeout <= 0 {
		return fmt.Errorf("login_timeout must be positive, got %v", s.LoginTimeout)
	}
	if s.PostTimeout <= 0 {
		return fmt.Errorf("post_timeout must be positive, got %v", s.PostTimeout)
	}
	if s.SettleDelay < 0 || s.SettleDelay > 2*time.Minute {
		return fmt.Errorf("settle_delay must be between 0 and 2m, got %v", s.SettleDelay)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *SlackSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.WorkspaceURL = ""
	s.CookieFile = defaultCookieFile
	s.LoginTimeout = defaultLoginTimeout
	s.PostTimeout = defaultPostTimeout
	s.SettleDelay = defaultSettleDelay
	s.AllowedChannels = nil
	s.DeniedChannels = nil
}

// SlackSettings is a consistent snapshot of the Slack section.
type SlackSettings struct {
	WorkspaceURL    string
	CookieFile      string
	LoginTimeout    time.Duration
	PostTimeout     time.Duration
	SettleDelay     time.Duration
	AllowedChannels []string
	DeniedChannels  []string
}

// Settings returns a snapshot of the current values.
func (s *SlackSection) Settings() SlackSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SlackSettings{
		WorkspaceURL:    s.WorkspaceURL,
		CookieFile:      s.CookieFile,
		LoginTimeout:    s.LoginTimeout,
		PostTimeout:     s.PostTimeout,
		SettleDelay:     s.SettleDelay,
		AllowedChannels: append([]string(nil), s.AllowedChannels...),
		DeniedChannels:  append([]string(nil), s.DeniedChannels...),
	}
}

// SetWorkspaceURL sets the default workspace.
func (s *SlackSection) SetWorkspaceURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WorkspaceURL = url
}
