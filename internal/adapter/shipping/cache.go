package shipping

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/usecase"
)

// rateCacheTTL keeps quotes fresh enough that a purchase against a
// cached rate id still resolves at the provider.
const rateCacheTTL = 5 * time.Minute

// RateCache is the slice of the redis cache the provider decorator
// needs.
type RateCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachingProvider wraps a ShippingProvider and caches rate quotes.
// Purchase, refund and address validation pass straight through.
type CachingProvider struct {
	usecase.ShippingProvider

	cache  RateCache
	logger zerolog.Logger
}

// NewCachingProvider creates a new CachingProvider.
func NewCachingProvider(provider usecase.ShippingProvider, cache RateCache, logger zerolog.Logger) *CachingProvider {
	return &CachingProvider{ShippingProvider: provider, cache: cache, logger: logger}
}

// GetRates returns cached quotes for a repeated shipment request and
// falls through to the provider on a miss. Cache failures degrade to
// the provider call, never to an error.
func (p *CachingProvider) GetRates(ctx context.Context, from, to domain.Address, parcel domain.Parcel) ([]*domain.Rate, error) {
	key := rateCacheKey(from, to, parcel)

	if cached, err := p.cache.Get(ctx, key); err == nil {
		var rates []*domain.Rate
		if err := json.Unmarshal([]byte(cached), &rates); err == nil {
			return rates, nil
		}
	}

	rates, err := p.ShippingProvider.GetRates(ctx, from, to, parcel)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(rates); err == nil {
		if err := p.cache.Set(ctx, key, string(encoded), rateCacheTTL); err != nil {
			p.logger.Warn().Err(err).Msg("failed to cache rate quotes")
		}
	}

	return rates, nil
}

func rateCacheKey(from, to domain.Address, parcel domain.Parcel) string {
	payload, _ := json.Marshal(struct {
		From   domain.Address
		To     domain.Address
		Parcel domain.Parcel
	}{from, to, parcel})

	sum := sha256.Sum256(payload)

	return "rates:" + hex.EncodeToString(sum[:])
}
