package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	defaultBrowserHeadless = false
	defaultViewportWidth   = 1280
	defaultViewportHeight  = 720
	defaultBrowserTimeout  = 30 * time.Second
)

// BrowserSection holds settings for the automated browser.
type BrowserSection struct {
	Headless       bool          `json:"headless"`
	ViewportWidth  int           `json:"viewport_width"`
	ViewportHeight int           `json:"viewport_height"`
	Timeout        time.Duration `json:"timeout"`
	Channel        string        `json:"channel"`
	SkipInstall    bool          `json:"skip_install"`
	mu             sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser Settings"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Configure the browser used to drive Slack: headless mode, viewport, default timeout and browser channel."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"headless":        s.Headless,
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"timeout":         s.Timeout.String(),
		"channel":         s.Channel,
		"skip_install":    s.SkipInstall,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for key, value := range data {
		switch key {
		case "headless":
			s.Headless, err = asBool(key, value)
		case "viewport_width":
			s.ViewportWidth, err = asInt(key, value)
		case "viewport_height":
			s.ViewportHeight, err = asInt(key, value)
		case "timeout":
			s.Timeout, err = asDuration(key, value)
		case "channel":
			s.Channel, err = asString(key, value)
		case "skip_install":
			s.SkipInstall, err = asBool(key, value)
		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ViewportWidth < 100 || s.ViewportWidth > 5000 {
		return fmt.Errorf("viewport_width must be between 100 and 5000 pixels, got %d", s.ViewportWidth)
	}
	if s.ViewportHeight < 100 || s.ViewportHeight > 5000 {
		return fmt.Errorf("viewport_height must be between 100 and 5000 pixels, got %d", s.ViewportHeight)
	}
	if s.Timeout < time.Second || s.Timeout > 5*time.Minute {
		return fmt.Errorf("timeout must be between 1s and 5m, got %v", s.Timeout)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Headless = defaultBrowserHeadless
	s.ViewportWidth = defaultViewportWidth
	s.ViewportHeight = defaultViewportHeight
	s.Timeout = defaultBrowserTimeout
	s.Channel = ""
	s.SkipInstall = false
}

// BrowserSettings is a consistent snapshot of the browser section.
type BrowserSettings struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	Timeout        time.Duration
	Channel        string
	SkipInstall    bool
}

// Settings returns a snapshot of the current values.
func (s *BrowserSection) Settings() BrowserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return BrowserSettings{
		Headless:       s.Headless,
		ViewportWidth:  s.ViewportWidth,
		ViewportHeight: s.ViewportHeight,
		Timeout:        s.Timeout,
		Channel:        s.Channel,
		SkipInstall:    s.SkipInstall,
	}
}
