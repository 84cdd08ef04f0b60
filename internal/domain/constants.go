package domain

// Inventory change sources carried in InventoryChangedPayload.Source
const (
	InventorySourceUnlock = "unlock"
	InventorySourceGrant  = "grant"
	InventorySourceRevoke = "revoke"
)

// DefaultUserName is assigned at initialization when the stored name is blank
const DefaultUserName = "Player"
