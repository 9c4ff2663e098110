package slack

import (
	"errors"
	"fmt"

	"github.com/entrhq/slackpost/pkg/browser"
)

// NavigateToChannel opens channelID and checks the rendered channel title.
// A missing title element and the unknown-channel placeholder both mean the
// channel cannot be used.
func (a *Automator) NavigateToChannel(channelID string) error {
	if err := a.driver.Navigate(ChannelURL(a.workspaceURL, channelID)); err != nil {
		return err
	}

	title, err := a.driver.Text(ChannelTitleSelector)
	if err != nil {
		if errors.Is(err, browser.ErrElementNotFound) {
			return fmt.Errorf("%w: %s", ErrInvalidChannel, channelID)
		}
		return err
	}

	if title == UnknownChannelTitle {
		return fmt.Errorf("%w: %s", ErrInvalidChannel, channelID)
	}

	a.logger.Debugf("opened channel %s (%s)", channelID, title)
	return nil
}
