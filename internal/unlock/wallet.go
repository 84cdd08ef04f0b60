package unlock

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/logger"
)

// Wallet is the game-side account a WalletPolicy charges
type Wallet interface {
	Balance(ctx context.Context, currency string) (int, error)
	Debit(ctx context.Context, currency string, amount int) error
	Level(ctx context.Context) (int, error)
}

// WalletPolicy implements currency and level gated unlocks on top of a Wallet.
// Types it does not handle are delegated to the fallback policy.
type WalletPolicy struct {
	wallet   Wallet
	fallback Policy
}

// NewWalletPolicy creates a WalletPolicy. A nil fallback means BasicPolicy.
func NewWalletPolicy(wallet Wallet, fallback Policy) *WalletPolicy {
	if fallback == nil {
		fallback = NewBasicPolicy()
	}
	return &WalletPolicy{wallet: wallet, fallback: fallback}
}

func currencyFor(t domain.UnlockType) (string, string, bool) {
	switch t {
	case domain.UnlockSoftCurrency:
		return CurrencySoft, ReasonNotEnoughCoins, true
	case domain.UnlockHardCurrency:
		return CurrencyHard, ReasonNotEnoughGems, true
	}
	return "", "", false
}

// CanUnlock implements Policy
func (p *WalletPolicy) CanUnlock(ctx context.Context, def domain.Definition, state domain.UserState) (bool, string) {
	if currency, reason, ok := currencyFor(def.UnlockType); ok {
		balance, err := p.wallet.Balance(ctx, currency)
		if err != nil {
			return false, err.Error()
		}
		if balance < def.UnlockValue {
			return false, reason
		}
		return true, ""
	}

	if def.UnlockType == domain.UnlockPlayerLevel {
		level, err := p.wallet.Level(ctx)
		if err != nil {
			return false, err.Error()
		}
		if level < def.UnlockValue {
			return false, ReasonLevelTooLow
		}
		return true, ""
	}

	return p.fallback.CanUnlock(ctx, def, state)
}

// TryUnlock implements Policy
func (p *WalletPolicy) TryUnlock(ctx context.Context, def domain.Definition, state domain.UserState) error {
	if currency, _, ok := currencyFor(def.UnlockType); ok {
		if err := p.wallet.Debit(ctx, currency, def.UnlockValue); err != nil {
			return err
		}
		logger.FromContext(ctx).Info(LogMsgWalletDebited,
			"item_id", def.ID,
			"currency", currency,
			"amount", def.UnlockValue)
		return nil
	}

	if def.UnlockType == domain.UnlockPlayerLevel {
		if ok, reason := p.CanUnlock(ctx, def, state); !ok {
			return fmt.Errorf("%w: %s", ErrUnlockFailed, reason)
		}
		return nil
	}

	return p.fallback.TryUnlock(ctx, def, state)
}

// MemoryWallet is an in-process Wallet for tests and the dev server
type MemoryWallet struct {
	mu       sync.Mutex
	balances map[string]int
	level    int
}

// NewMemoryWallet creates a wallet with the given balances and level
func NewMemoryWallet(balances map[string]int, level int) *MemoryWallet {
	b := make(map[string]int, len(balances))
	for k, v := range balances {
		b[k] = v
	}
	return &MemoryWallet{balances: b, level: level}
}

// Balance implements Wallet
func (w *MemoryWallet) Balance(_ context.Context, currency string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balances[currency], nil
}

// Debit implements Wallet
func (w *MemoryWallet) Debit(_ context.Context, currency string, amount int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.balances[currency] < amount {
		if currency == CurrencySoft {
			return ErrNotEnoughCoins
		}
		return fmt.Errorf("%w: not enough %s", ErrUnlockFailed, currency)
	}
	w.balances[currency] -= amount
	return nil
}

// Level implements Wallet
func (w *MemoryWallet) Level(_ context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.level, nil
}
