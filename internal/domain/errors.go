package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the provider is unreachable
	ErrServerOffline = errors.New("provider is unreachable")

	// ErrTimeout indicates the provider did not answer in time
	ErrTimeout = errors.New("provider request timed out")

	// ErrAuthFailed indicates the provider rejected the credentials
	ErrAuthFailed = errors.New("credentials were rejected")

	// ErrBadData indicates the provider answered with an unexpected payload
	ErrBadData = errors.New("malformed provider response")

	// ErrParse indicates a playlist could not be parsed
	ErrParse = errors.New("failed to parse playlist")

	// ErrMissingCredentials indicates there is no active session to load with
	ErrMissingCredentials = errors.New("no active credentials")

	// ErrNotFound indicates a referenced catalog item no longer exists
	ErrNotFound = errors.New("item not found")

	// ErrPlaylistNotFound indicates the requested playlist does not exist
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrInvalidBaseURL indicates a provider URL could not be normalized
	ErrInvalidBaseURL = errors.New("invalid provider URL")

	// ErrUnsupportedSource indicates an unknown playlist or source type
	ErrUnsupportedSource = errors.New("unsupported source type")

	// ErrUnknown covers provider failures that fit no other category
	ErrUnknown = errors.New("unknown provider error")
)
