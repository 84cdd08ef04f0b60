package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidCategory       = "Unknown category. Valid options: avatar, frame"
	ErrMsgMissingPlayerID       = "Missing player id"
	ErrMsgInvalidLimit          = "limit must be a non-negative integer"
	ErrMsgInvalidRequestFormat  = "Invalid request format"
)

// Custom validate tags
const (
	TagItemID   = "itemid"
	TagUserName = "username"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgUnavailableError    = "Server is temporarily unavailable. Please try again later."
	ErrMsgStorageError        = "Could not save your changes. Please try again."

	ErrMsgInvalidIDError     = "Invalid item id"
	ErrMsgItemNotFoundError  = "Item not found"
	ErrMsgNotOwnedError      = "You don't own that item"
	ErrMsgNotUnlockableError = "That item cannot be unlocked right now"
	ErrMsgUnlockFailedError  = "Unlock transaction failed"
)

// Operation names used in logs and error metrics
const (
	OpGetCatalog      = "Get catalog"
	OpGetProfile      = "Get profile"
	OpGetItems        = "Get items"
	OpSelect          = "Select item"
	OpUnlock          = "Unlock item"
	OpUnlockAndSelect = "Unlock and select item"
	OpUpdateUserName  = "Update user name"
	OpGrant           = "Grant item"
	OpRevoke          = "Revoke item"
	OpGetEvents       = "Get player events"
)

// Success messages for API responses
const (
	MsgItemSelected       = "Item selected"
	MsgItemUnlocked       = "Item unlocked"
	MsgItemUnlockSelected = "Item unlocked and selected"
	MsgUserNameUpdated    = "User name updated"
	MsgItemGranted        = "Item granted"
	MsgItemRevoked        = "Item revoked"
	MsgPlayerEvicted      = "Player evicted from cache"
)

// DefaultVersion is reported when no version is configured
const DefaultVersion = "dev"
