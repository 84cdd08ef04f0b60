package domain

// InitializedPayload fires after a player's state was loaded and repaired
type InitializedPayload struct {
	PlayerID         string `json:"player_id"`
	SelectedAvatarID ItemID `json:"selected_avatar_id"`
	SelectedFrameID  ItemID `json:"selected_frame_id"`
	Timestamp        int64  `json:"timestamp"`
}

// SelectionChangedPayload fires for avatar.selection_changed and frame.selection_changed
type SelectionChangedPayload struct {
	PlayerID  string   `json:"player_id"`
	Category  Category `json:"category"`
	ItemID    ItemID   `json:"item_id"`
	Timestamp int64    `json:"timestamp"`
}

// InventoryChangedPayload fires when ownership changes. Granted is true for
// unlocks and grants, false for revocations.
type InventoryChangedPayload struct {
	PlayerID  string   `json:"player_id"`
	Category  Category `json:"category"`
	ItemID    ItemID   `json:"item_id"`
	Granted   bool     `json:"granted"`
	Source    string   `json:"source"` // "unlock", "grant", "revoke"
	Timestamp int64    `json:"timestamp"`
}

// UserNameChangedPayload fires when the display name changes
type UserNameChangedPayload struct {
	PlayerID  string `json:"player_id"`
	UserName  string `json:"user_name"`
	Timestamp int64  `json:"timestamp"`
}
