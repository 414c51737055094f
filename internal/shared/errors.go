package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// Authorization errors
	ErrNotOwner            = fmt.Errorf("only the collection owner may perform this action")
	ErrNoAccess            = fmt.Errorf("no access to collection")
	ErrPersonalLocked      = fmt.Errorf("personal collections cannot be deleted or shared")
	ErrNotOrphaned         = fmt.Errorf("song is not orphaned")
	ErrAlreadyRequested    = fmt.Errorf("collaboration request already exists")
	ErrAlreadyCollaborator = fmt.Errorf("user is already a collaborator")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrCollectionNotFound = fmt.Errorf("collection not found")
	ErrSongNotFound       = fmt.Errorf("song not found")
	ErrLyricsNotFound     = fmt.Errorf("lyrics not found")
	ErrTempoNotFound      = fmt.Errorf("tempo not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrTimeout         = fmt.Errorf("operation timed out")
)
