// Package runner sequences slackpost's two flows around one browser session.
//
// Login opens a visible browser on the Slack sign-in page, waits for the
// operator and saves the cookies. Post validates its inputs, picks a message,
// applies the channel guard and only then launches the browser to restore
// the session, open the channel and post. The browser is shut down on every
// exit path.
//
// The package also holds the console Reporter, the YAML Job file format used
// for routine posting, and Describe, which maps failures to the message
// shown to the operator.
package runner
