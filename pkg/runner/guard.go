package runner

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

// ErrChannelNotAllowed is returned when a channel ID is excluded by the
// configured allow/deny patterns.
var ErrChannelNotAllowed = errors.New("channel not allowed")

// ChannelGuard restricts which channel IDs may be posted to.
// Denied patterns take precedence; an empty allow list admits every channel
// that is not denied.
type ChannelGuard struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// NewChannelGuard compiles the allow and deny glob patterns.
func NewChannelGuard(allowed, denied []string) (*ChannelGuard, error) {
	g := &ChannelGuard{}

	for _, pattern := range allowed {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed channel pattern '%s': %w", pattern, err)
		}
		g.allowed = append(g.allowed, compiled)
	}

	for _, pattern := range denied {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid denied channel pattern '%s': %w", pattern, err)
		}
		g.denied = append(g.denied, compiled)
	}

	return g, nil
}

// IsAllowed reports whether channelID passes the patterns. A nil guard
// allows everything.
func (g *ChannelGuard) IsAllowed(channelID string) bool {
	if g == nil {
		return true
	}

	for _, pattern := range g.denied {
		if pattern.Match(channelID) {
			return false
		}
	}

	if len(g.allowed) == 0 {
		return true
	}

	for _, pattern := range g.allowed {
		if pattern.Match(channelID) {
			return true
		}
	}
	return false
}

// Check returns an error wrapping ErrChannelNotAllowed for a rejected channel.
func (g *ChannelGuard) Check(channelID string) error {
	if !g.IsAllowed(channelID) {
		return fmt.Errorf("%w: %s", ErrChannelNotAllowed, channelID)
	}
	return nil
}
