package cosmetic

// Constructor error messages
const (
	ErrMsgNilCatalog = "catalog is required"
	ErrMsgNilStorage = "storage is required"
	ErrMsgNilPolicy  = "unlock policy is required"
	ErrMsgNilBus     = "event bus is required"
)

// Operation failure messages carried by *domain.Error
const (
	MsgNotInitialized       = "not initialized"
	MsgInvalidID            = "invalid id"
	MsgNotInCatalogFmt      = "%s '%s' not in catalog"
	MsgNotOwned             = "%s not owned"
	MsgNotUnlockableDefault = "not unlockable"
	MsgUnlockFailedDefault  = "unlock failed"
	MsgUnlockDidNotGrant    = "unlock did not grant ownership"
	MsgSaveFailedFmt        = "failed to save %s"
	MsgEmptyUserName        = "user name is empty"
	MsgNothingSelected      = "no %s selected"
	MsgRevokeGranted        = "free and default items cannot be revoked"
)

// Operation names used in logs and save failure messages
const (
	OpSelect   = "selection"
	OpUnlock   = "unlock"
	OpGrant    = "grant"
	OpRevoke   = "revoke"
	OpUserName = "user name"
)

// Log messages
const (
	LogMsgLoadFailed       = "Cosmetic state load failed; using fresh state"
	LogMsgInitSaveFailed   = "Cosmetic state save failed during initialize"
	LogMsgSaveFailed       = "Cosmetic state save failed"
	LogMsgInitialized      = "Cosmetic service initialized"
	LogMsgSelectionChanged = "Cosmetic selection changed"
	LogMsgItemUnlocked     = "Cosmetic item unlocked"
	LogMsgItemGranted      = "Cosmetic item granted"
	LogMsgItemRevoked      = "Cosmetic item revoked"
	LogMsgUserNameChanged  = "User name changed"
	LogMsgUnlockRefused    = "Unlock refused by policy"
	LogMsgPublishFailed    = "Failed to publish cosmetic event"
	LogMsgStateReloaded    = "Cosmetic state was saved elsewhere; reloaded"
	LogMsgReloadFailed     = "Cosmetic state reload failed"
)
