package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque bytes so memory and redis backends behave identically.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// InventorySource supplies normalized products for a retailer and category.
// Implementations must degrade internally and never fail the caller.
type InventorySource interface {
	Items(ctx context.Context, retailerID, category, occasion string) ([]Product, error)
}
