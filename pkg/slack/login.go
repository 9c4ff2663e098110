package slack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/slackpost/pkg/browser"
)

// VerifyLogin waits up to timeout for the signed-in user menu to render.
// It is the only check separating a restored session from an expired one.
func (a *Automator) VerifyLogin(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}

	err := a.driver.WaitForSelector(LoginMarkerSelector, timeout)
	switch {
	case err == nil:
		a.logger.Debugf("login marker %s found", LoginMarkerSelector)
		return nil
	case errors.Is(err, browser.ErrTimeout), errors.Is(err, browser.ErrElementNotFound):
		return fmt.Errorf("%w: login marker did not appear within %s", ErrNotLoggedIn, timeout)
	default:
		return err
	}
}

// RestoreSession opens the workspace, installs the saved cookies, reloads
// and verifies the login. With no saved cookies the reload still happens
// and verification decides the outcome.
func (a *Automator) RestoreSession(timeout time.Duration) error {
	if err := a.driver.Navigate(a.workspaceURL); err != nil {
		return err
	}

	cookies, err := a.store.Load()
	if err != nil {
		return err
	}
	a.logger.Infof("restoring %d saved cookies", len(cookies))

	if err := a.driver.AddCookies(cookies); err != nil {
		return err
	}
	if err := a.driver.Reload(); err != nil {
		return err
	}

	return a.VerifyLogin(timeout)
}

// Confirmer blocks until the operator has finished logging in by hand.
type Confirmer func(ctx context.Context) error

// CaptureLogin opens the Slack sign-in page, waits for confirm to return and
// saves the browser's cookies.
func (a *Automator) CaptureLogin(ctx context.Context, confirm Confirmer) error {
	if err := a.driver.Navigate(SignInURL); err != nil {
		return err
	}

	if err := confirm(ctx); err != nil {
		return fmt.Errorf("login not confirmed: %w", err)
	}

	cookies, err := a.driver.Cookies()
	if err != nil {
		return err
	}

	if err := a.store.Save(cookies); err != nil {
		return err
	}
	a.logger.Infof("saved %d cookies", len(cookies))
	return nil
}
