package unlock

import (
	"context"
	"errors"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/logger"
)

// Policy decides whether an item can be unlocked right now and performs the
// unlock transaction (spend currency, consume an ad view, ...).
// This is where a game integrates coins, ads, levels and events.
type Policy interface {
	// CanUnlock evaluates without side effects. reason is empty when allowed.
	CanUnlock(ctx context.Context, def domain.Definition, state domain.UserState) (bool, string)
	// TryUnlock executes the transaction. A nil error means ownership may be granted.
	TryUnlock(ctx context.Context, def domain.Definition, state domain.UserState) error
}

// Sentinel errors returned by TryUnlock
var (
	ErrNotEnoughCoins = errors.New(ReasonNotEnoughCoins)
	ErrAdFailed       = errors.New(ReasonAdFailed)
	ErrUnlockFailed   = errors.New(ReasonUnlockFailed)
)

// BasicPolicy only unlocks Free and Default items. Every other unlock type is
// left to a game-specific policy.
type BasicPolicy struct{}

// NewBasicPolicy creates a BasicPolicy
func NewBasicPolicy() *BasicPolicy {
	return &BasicPolicy{}
}

// CanUnlock implements Policy
func (p *BasicPolicy) CanUnlock(ctx context.Context, def domain.Definition, _ domain.UserState) (bool, string) {
	switch def.UnlockType {
	case domain.UnlockFree, domain.UnlockDefault:
		return true, ""
	case domain.UnlockRewardedAd, domain.UnlockSoftCurrency, domain.UnlockPlayerLevel:
		logger.FromContext(ctx).Error(LogMsgUnsupportedUnlockType,
			"unlock_type", def.UnlockType.String(),
			"item_id", def.ID)
		return false, ReasonUnsupported
	default:
		return false, ReasonNotUnlockable
	}
}

// TryUnlock implements Policy
func (p *BasicPolicy) TryUnlock(_ context.Context, def domain.Definition, _ domain.UserState) error {
	switch def.UnlockType {
	case domain.UnlockFree, domain.UnlockDefault:
		return nil
	case domain.UnlockSoftCurrency:
		return ErrNotEnoughCoins
	case domain.UnlockRewardedAd:
		return ErrAdFailed
	default:
		return ErrUnlockFailed
	}
}
