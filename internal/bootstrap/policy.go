package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/cosmetics/internal/config"
	"github.com/osse101/cosmetics/internal/unlock"
)

// BuildUnlockPolicy selects the unlock policy. The wallet policy runs against
// an in-memory wallet seeded from the DEV_WALLET_* settings; items it does not
// price fall through to the basic policy.
func BuildUnlockPolicy(cfg *config.Config) (unlock.Policy, error) {
	switch cfg.UnlockPolicy {
	case config.UnlockPolicyBasic:
		slog.Info(LogMsgUnlockPolicy, "policy", cfg.UnlockPolicy)
		return unlock.NewBasicPolicy(), nil
	case config.UnlockPolicyWallet:
		wallet := unlock.NewMemoryWallet(map[string]int{
			unlock.CurrencySoft: cfg.DevWalletCoins,
			unlock.CurrencyHard: cfg.DevWalletGems,
		}, cfg.DevPlayerLevel)
		slog.Info(LogMsgUnlockPolicy,
			"policy", cfg.UnlockPolicy,
			"coins", cfg.DevWalletCoins,
			"gems", cfg.DevWalletGems,
			"level", cfg.DevPlayerLevel)
		return unlock.NewWalletPolicy(wallet, unlock.NewBasicPolicy()), nil
	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownUnlockPolicy, cfg.UnlockPolicy)
	}
}
