package domain

import "errors"

// Session token verification.
var (
	ErrTokenMissing = errors.New("authentication token missing")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Message routing.
var (
	ErrSelfMessage      = errors.New("cannot send a message to yourself")
	ErrUserNotFound     = errors.New("receiver not found")
	ErrEmptyMessage     = errors.New("empty message")
	ErrMessageTooLong   = errors.New("message too long")
	ErrChannelForbidden = errors.New("cannot join another user's channel")
)

// Push dispatch.
var (
	ErrNoSubscription = errors.New("no push subscription found for this user")
	ErrInvalidKind    = errors.New("invalid notification type")
)
