package domain

// Event type constants used for event bus subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "avatar.selection_changed")
const (
	// EventTypeCosmeticInitialized is published once a player's service finished Initialize
	EventTypeCosmeticInitialized = "cosmetic.initialized"

	// EventTypeAvatarSelectionChanged is published when the selected avatar changes
	EventTypeAvatarSelectionChanged = "avatar.selection_changed"

	// EventTypeFrameSelectionChanged is published when the selected frame changes
	EventTypeFrameSelectionChanged = "frame.selection_changed"

	// EventTypeInventoryChanged is published when an owned list gains or loses an item
	EventTypeInventoryChanged = "inventory.changed"

	// EventTypeUserNameChanged is published when the display name changes
	EventTypeUserNameChanged = "username.changed"
)

// SelectionEventType returns the selection-changed event type for a category
func SelectionEventType(cat Category) string {
	if cat == CategoryFrame {
		return EventTypeFrameSelectionChanged
	}
	return EventTypeAvatarSelectionChanged
}
