package settings

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how stale a resolved config may be served.
const DefaultCacheTTL = 5 * time.Minute

// Service resolves typed integration configs with time-boxed memoization.
// It is constructed once at startup and injected into handlers; there is no
// package-level instance. Safe for concurrent use: the cache is guarded by a
// mutex, and racing resolutions are idempotent (last write wins).
type Service struct {
	store *Store
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry

	// now is swappable for tests.
	now func() time.Time
}

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

const (
	cacheKeyGoogle = "google"
	cacheKeyStripe = "stripe"
	cacheKeyEmail  = "email"
	cacheKeyPublic = "public"
)

// NewService creates the settings service. ttl <= 0 selects DefaultCacheTTL.
func NewService(store *Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		store:   store,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Store exposes the underlying store for write paths (admin handlers, CLI).
func (s *Service) Store() *Store {
	return s.store
}

// Invalidate drops every cached entry. Admin settings writes call this so
// readers do not observe stale secrets for up to a full TTL.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.entries = make(map[string]cacheEntry)
	s.mu.Unlock()
}

// cached returns the fresh cache entry for key, or resolves, stores, and
// returns a new one. Two goroutines racing on a cold entry both resolve;
// resolution is a side-effect-free read, so duplicate work is harmless.
func (s *Service) cached(ctx context.Context, key string, resolve func(context.Context) (any, error)) (any, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && s.now().Sub(entry.fetchedAt) < s.ttl {
		return entry.value, nil
	}

	value, err := resolve(ctx)
	if err != nil {
		// Failures are not cached; the next call retries the store.
		return nil, err
	}

	s.mu.Lock()
	s.entries[key] = cacheEntry{value: value, fetchedAt: s.now()}
	s.mu.Unlock()
	return value, nil
}

// Google returns the resolved Google integration config.
func (s *Service) Google(ctx context.Context) (GoogleConfig, error) {
	v, err := s.cached(ctx, cacheKeyGoogle, func(ctx context.Context) (any, error) {
		return s.resolveGoogle(ctx)
	})
	if err != nil {
		return GoogleConfig{}, err
	}
	return v.(GoogleConfig), nil
}

// Stripe returns the resolved Stripe integration config.
func (s *Service) Stripe(ctx context.Context) (StripeConfig, error) {
	v, err := s.cached(ctx, cacheKeyStripe, func(ctx context.Context) (any, error) {
		return s.resolveStripe(ctx)
	})
	if err != nil {
		return StripeConfig{}, err
	}
	return v.(StripeConfig), nil
}

// Email returns the resolved SMTP config.
func (s *Service) Email(ctx context.Context) (EmailConfig, error) {
	v, err := s.cached(ctx, cacheKeyEmail, func(ctx context.Context) (any, error) {
		return s.resolveEmail(ctx)
	})
	if err != nil {
		return EmailConfig{}, err
	}
	return v.(EmailConfig), nil
}

// Public returns the public settings projection.
func (s *Service) Public(ctx context.Context) (PublicSettings, error) {
	v, err := s.cached(ctx, cacheKeyPublic, func(ctx context.Context) (any, error) {
		return s.resolvePublic(ctx)
	})
	if err != nil {
		return PublicSettings{}, err
	}
	return v.(PublicSettings), nil
}

// isNotFound reports whether err is the store's absence sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, ErrSettingNotFound)
}
