package slack

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// PostMessage types message into the current channel's composer and presses
// send. It then pauses for the settle delay so the client can flush the
// message; delivery is not confirmed. Each call posts a new message.
func (a *Automator) PostMessage(ctx context.Context, message string, timeout time.Duration) error {
	if message == "" {
		return ErrNoMessage
	}
	if timeout <= 0 {
		timeout = DefaultPostTimeout
	}

	if err := a.driver.WaitForSelector(MessageInputSelector, timeout); err != nil {
		return fmt.Errorf("message input: %w", err)
	}
	if err := a.driver.Type(MessageInputSelector, message); err != nil {
		return err
	}
	if err := a.driver.Click(SendButtonSelector); err != nil {
		return fmt.Errorf("send button: %w", err)
	}

	a.logger.Debugf("send pressed, settling for %s", a.settleDelay)
	return settle(ctx, a.settleDelay)
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PickMessage returns one of candidates chosen uniformly at random. Blank
// candidates are ignored. A nil rng uses the global source.
func PickMessage(candidates []string, rng *rand.Rand) (string, error) {
	messages := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			messages = append(messages, c)
		}
	}

	if len(messages) == 0 {
		return "", ErrNoMessage
	}

	if rng == nil {
		return messages[rand.IntN(len(messages))], nil
	}
	return messages[rng.IntN(len(messages))], nil
}
