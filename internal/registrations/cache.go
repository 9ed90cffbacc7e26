package registrations

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tws-events/checkin/internal/models"
)

const (
	DefaultPassTTL         = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// PassCache keeps verified registrations keyed by pass id. Registrations are
// never updated or deleted, so only found passes are cached and entries never go stale.
// A nil *PassCache is a valid, always-missing cache.
type PassCache struct {
	cache *gocache.Cache
}

// NewPassCache creates a pass cache. Non-positive durations fall back to the defaults.
func NewPassCache(ttl, cleanupInterval time.Duration) *PassCache {
	if ttl <= 0 {
		ttl = DefaultPassTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &PassCache{cache: gocache.New(ttl, cleanupInterval)}
}

// Get returns a copy of the cached registration for a pass id.
func (c *PassCache) Get(registrationID string) (*models.Registration, bool) {
	if c == nil {
		return nil, false
	}
	v, found := c.cache.Get(registrationID)
	if !found {
		return nil, false
	}
	reg, ok := v.(models.Registration)
	if !ok {
		return nil, false
	}
	return &reg, true
}

// Set caches reg under its pass id.
func (c *PassCache) Set(reg *models.Registration) {
	if c == nil || reg == nil {
		return
	}
	c.cache.SetDefault(reg.RegistrationID, *reg)
}

// Len returns the number of cached passes, expired entries included until cleanup.
func (c *PassCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.ItemCount()
}
