package slack

import "errors"

var (
	// ErrNotLoggedIn is returned when the login marker does not render
	// within the verification timeout.
	ErrNotLoggedIn = errors.New("not logged in to Slack")

	// ErrInvalidChannel is returned when a channel page shows the unknown
	// channel placeholder or has no channel title at all.
	ErrInvalidChannel = errors.New("channel does not exist or is not accessible")

	// ErrInvalidFormat is returned for a malformed workspace URL.
	ErrInvalidFormat = errors.New("invalid workspace URL format")

	// ErrNoMessage is returned when there is nothing to post.
	ErrNoMessage = errors.New("no message to post")
)
