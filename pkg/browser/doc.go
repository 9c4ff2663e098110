// Package browser drives a single Playwright browser session for slackpost.
//
// The package is the only place that talks to Playwright. Everything above it
// (session restore, channel navigation, message posting) is written against
// the Driver interface, which exposes just the operations the automation
// needs:
//
//   - Navigate / Reload
//   - WaitForSelector, Text (element lookup with a "not found" failure)
//   - Type, Click
//   - Cookies, AddCookies
//   - Close
//
// # Lifecycle
//
// A Launcher installs and starts the Playwright driver, launches one browser
// with one context and one page, and hands it back as a Driver. Shutdown
// closes the page, context and browser and stops Playwright. Callers own the
// Launcher for the duration of a single run and must call Shutdown on every
// exit path:
//
//	launcher := browser.NewLauncher()
//	defer launcher.Shutdown()
//
//	driver, err := launcher.Launch(browser.SessionOptions{Headless: false})
//	if err != nil {
//	    return err
//	}
//	err = driver.Navigate("https://example.slack.com")
//
// # Errors
//
// Driver methods classify failures into three sentinels so callers can use
// errors.Is without importing Playwright: ErrElementNotFound, ErrTimeout and
// ErrDriver.
package browser
