package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Configuration errors - surfaced to the invoking user as plain text
	ErrMsgServerNotConfigured = "server is not configured"
	ErrMsgRoleRequired        = "a role is required when giverole is enabled"
	ErrMsgNotTextChannel      = "announcement channel must be a text channel"
	ErrMsgInvalidDate         = "invalid date"

	// Lookup errors
	ErrMsgBirthdayNotFound = "birthday not found"
	ErrMsgServerNotFound   = "server not found"
	ErrMsgConfigNotFound   = "config entry not found"

	// Directory lookup failures - caught at the nearest fan-out boundary
	ErrMsgUserNotFound    = "cannot get user"
	ErrMsgGuildNotFound   = "cannot get guild"
	ErrMsgChannelNotFound = "cannot get channel"
	ErrMsgRoleNotFound    = "cannot get role"
)

// Common domain errors
// Wrap these with fmt.Errorf("%w: details", domain.ErrXxx) for context.
var (
	ErrServerNotConfigured = errors.New(ErrMsgServerNotConfigured)
	ErrRoleRequired        = errors.New(ErrMsgRoleRequired)
	ErrNotTextChannel      = errors.New(ErrMsgNotTextChannel)
	ErrInvalidDate         = errors.New(ErrMsgInvalidDate)

	ErrBirthdayNotFound = errors.New(ErrMsgBirthdayNotFound)
	ErrServerNotFound   = errors.New(ErrMsgServerNotFound)
	ErrConfigNotFound   = errors.New(ErrMsgConfigNotFound)

	ErrUserNotFound    = errors.New(ErrMsgUserNotFound)
	ErrGuildNotFound   = errors.New(ErrMsgGuildNotFound)
	ErrChannelNotFound = errors.New(ErrMsgChannelNotFound)
	ErrRoleNotFound    = errors.New(ErrMsgRoleNotFound)
)
