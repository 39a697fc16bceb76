package domain

import "errors"

var (
	ErrSendingReplyFailed = errors.New("failed to send reply")
	ErrEmptyPrompt        = errors.New("empty prompt")
	ErrMissingReply       = errors.New("command must reply to a message")

	// ErrAccessDenied is returned by history sources when the bot cannot read the room.
	ErrAccessDenied = errors.New("access to channel history denied")
	// ErrServiceUnavailable wraps transport and HTTP failures of a generative endpoint.
	ErrServiceUnavailable = errors.New("generative service unavailable")
	// ErrMalformedResponse marks a generative endpoint response with an unexpected shape.
	ErrMalformedResponse = errors.New("malformed generative service response")
	// ErrNoImageInResponse is returned when a generation succeeded but carried no binary part.
	ErrNoImageInResponse = errors.New("no image in response")
	// ErrNoImageFound is returned when no image could be extracted from a chat message.
	ErrNoImageFound = errors.New("no image found in message")
)
