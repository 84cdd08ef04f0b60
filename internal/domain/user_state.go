package domain

import "slices"

// UserState is the per-player record of selections and ownership.
// The JSON field names are the persisted blob format and must not change.
//
// Revision counts successful saves. Stores accept a save only when it is
// exactly one ahead of the stored revision; zero is an unversioned write.
type UserState struct {
	UserName         string   `json:"userName"`
	SelectedAvatarID ItemID   `json:"selectedAvatarId"`
	SelectedFrameID  ItemID   `json:"selectedFrameId"`
	OwnedAvatarIDs   []ItemID `json:"ownedAvatarIds"`
	OwnedFrameIDs    []ItemID `json:"ownedFrameIds"`
	Revision         int64    `json:"revision,omitempty"`
}

// NewUserState returns an empty state with non-nil owned lists
func NewUserState() UserState {
	return UserState{
		OwnedAvatarIDs: []ItemID{},
		OwnedFrameIDs:  []ItemID{},
	}
}

// Normalize replaces nil lists with empty ones and drops duplicate or blank ids,
// keeping first-insertion order.
func (s *UserState) Normalize() {
	s.OwnedAvatarIDs = dedupe(s.OwnedAvatarIDs)
	s.OwnedFrameIDs = dedupe(s.OwnedFrameIDs)
}

func dedupe(ids []ItemID) []ItemID {
	out := make([]ItemID, 0, len(ids))
	seen := make(map[ItemID]struct{}, len(ids))
	for _, id := range ids {
		if !id.Valid() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *UserState) owned(cat Category) *[]ItemID {
	if cat == CategoryFrame {
		return &s.OwnedFrameIDs
	}
	return &s.OwnedAvatarIDs
}

// Owned returns the owned ids of a category in insertion order
func (s UserState) Owned(cat Category) []ItemID {
	return *s.owned(cat)
}

// Owns reports whether id is in the owned list of cat
func (s UserState) Owns(cat Category, id ItemID) bool {
	return slices.Contains(*s.owned(cat), id)
}

// AddOwned appends id to the owned list of cat. Invalid and already-owned
// ids are ignored; the return value reports whether the list changed.
func (s *UserState) AddOwned(cat Category, id ItemID) bool {
	if !id.Valid() || s.Owns(cat, id) {
		return false
	}
	list := s.owned(cat)
	*list = append(*list, id)
	return true
}

// RemoveOwned drops id from the owned list of cat
func (s *UserState) RemoveOwned(cat Category, id ItemID) bool {
	list := s.owned(cat)
	idx := slices.Index(*list, id)
	if idx < 0 {
		return false
	}
	*list = slices.Delete(*list, idx, idx+1)
	return true
}

// Selected returns the selected id of cat, possibly empty
func (s UserState) Selected(cat Category) ItemID {
	if cat == CategoryFrame {
		return s.SelectedFrameID
	}
	return s.SelectedAvatarID
}

// SetSelected overwrites the selection slot of cat
func (s *UserState) SetSelected(cat Category, id ItemID) {
	if cat == CategoryFrame {
		s.SelectedFrameID = id
		return
	}
	s.SelectedAvatarID = id
}

// Clone returns a deep copy
func (s UserState) Clone() UserState {
	c := s
	c.OwnedAvatarIDs = append(make([]ItemID, 0, len(s.OwnedAvatarIDs)), s.OwnedAvatarIDs...)
	c.OwnedFrameIDs = append(make([]ItemID, 0, len(s.OwnedFrameIDs)), s.OwnedFrameIDs...)
	return c
}
