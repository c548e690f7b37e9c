package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidRecipient     = errors.New("invalid notification recipient")
	ErrRecipientNotFound    = errors.New("notification recipient not found")
	ErrQueueFull            = errors.New("notification queue is full")
)
