package player

import "time"

// DefaultCacheSize is the default maximum number of live player services
const DefaultCacheSize = 1000

// DefaultCacheTTL is how long an idle player service stays cached
const DefaultCacheTTL = 30 * time.Minute

// Error and log messages
const (
	ErrMsgEmptyPlayerID  = "player id is empty"
	ErrMsgCreateService  = "failed to create cosmetic service"
	LogMsgServiceCreated = "Cosmetic service created for player"
	LogMsgServiceEvicted = "Cosmetic service evicted from registry"
)
