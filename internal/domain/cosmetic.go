package domain

import (
	"fmt"
	"strings"
)

// ItemID identifies a cosmetic item inside one category.
// Comparison is ordinal; an ID made only of whitespace is invalid.
type ItemID string

// Valid reports whether the id is usable as a catalog key
func (id ItemID) Valid() bool {
	return strings.TrimSpace(string(id)) != ""
}

func (id ItemID) String() string {
	return string(id)
}

// Category separates the two independent cosmetic slots a player selects from
type Category string

const (
	CategoryAvatar Category = "avatar"
	CategoryFrame  Category = "frame"
)

// Categories lists every category in a stable order
var Categories = []Category{CategoryAvatar, CategoryFrame}

// ParseCategory accepts singular or plural forms ("avatar", "avatars")
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "avatar", "avatars":
		return CategoryAvatar, nil
	case "frame", "frames":
		return CategoryFrame, nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
}

// UnlockType is the rule category governing how an item becomes ownable
type UnlockType int

const (
	UnlockDefault UnlockType = iota
	UnlockFree
	UnlockSoftCurrency
	UnlockHardCurrency
	UnlockRewardedAd
	UnlockPlayerLevel
	UnlockEvent
	UnlockIAP
)

var unlockTypeNames = map[UnlockType]string{
	UnlockDefault:      "default",
	UnlockFree:         "free",
	UnlockSoftCurrency: "soft_currency",
	UnlockHardCurrency: "hard_currency",
	UnlockRewardedAd:   "rewarded_ad",
	UnlockPlayerLevel:  "player_level",
	UnlockEvent:        "event",
	UnlockIAP:          "iap",
}

func (t UnlockType) String() string {
	if name, ok := unlockTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unlock_type(%d)", int(t))
}

// IsGranted reports whether items of this type are owned unconditionally
func (t UnlockType) IsGranted() bool {
	return t == UnlockDefault || t == UnlockFree
}

// ParseUnlockType converts the catalog string form into an UnlockType
func ParseUnlockType(s string) (UnlockType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return UnlockDefault, nil
	}
	for t, name := range unlockTypeNames {
		if name == key {
			return t, nil
		}
	}
	return UnlockDefault, fmt.Errorf("%w: unknown unlock type %q", ErrInvalidInput, s)
}

// MarshalText implements encoding.TextMarshaler
func (t UnlockType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *UnlockType) UnmarshalText(b []byte) error {
	parsed, err := ParseUnlockType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Definition is an immutable catalog entry for an avatar or a frame
type Definition struct {
	ID          ItemID     `json:"id" yaml:"id"`
	DisplayName string     `json:"display_name" yaml:"display_name"`
	UnlockType  UnlockType `json:"unlock_type" yaml:"unlock_type"`
	// UnlockValue is a cost, a required level or an ad count depending on UnlockType
	UnlockValue int    `json:"unlock_value" yaml:"unlock_value"`
	Tag         string `json:"tag,omitempty" yaml:"tag,omitempty"`
	IsDefault   bool   `json:"is_default" yaml:"is_default"`
}

// OwnershipState is derived per item from user state, catalog and unlock policy
type OwnershipState int

const (
	StateUnknown OwnershipState = iota
	StateLocked
	StateUnlockable
	StateOwned
	StateSelected
)

func (s OwnershipState) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateUnlockable:
		return "unlockable"
	case StateOwned:
		return "owned"
	case StateSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s OwnershipState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
