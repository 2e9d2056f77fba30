package domain

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("forbidden")
	ErrNotParticipant       = errors.New("user not participant")
	ErrUserNotFound         = errors.New("user not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageTooLarge      = errors.New("message too large")
)
