package unlock

// Refusal reasons reported by CanUnlock
const (
	ReasonNotUnlockable  = "not unlockable"
	ReasonUnsupported    = "unlock type not handled by this policy"
	ReasonNotEnoughCoins = "not enough coins"
	ReasonNotEnoughGems  = "not enough gems"
	ReasonLevelTooLow    = "player level too low"
	ReasonAdFailed       = "ad failed"
	ReasonUnlockFailed   = "unlock failed"
)

// Currencies tracked by a Wallet
const (
	CurrencySoft = "coins"
	CurrencyHard = "gems"
)

// Log messages
const (
	LogMsgUnsupportedUnlockType = "Unlock type is not handled by the basic unlock policy"
	LogMsgWalletDebited         = "Wallet debited for unlock"
)
