// Package slack automates a Slack workspace through its rendered web UI.
//
// There is no API client here. An Automator drives a browser.Driver the way
// an operator would: restore a saved session from the cookie store, confirm
// the sidebar user menu rendered, open a channel by ID, type into the
// composer and press send.
//
// Every operation is single-shot. Failures are reported with the sentinels
// in errors.go and are never retried.
package slack
