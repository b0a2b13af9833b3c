// Package theme derives and caches theme tokens. A Theme wraps a
// caller-supplied derivation function; the TokenCache memoizes its output so
// expensive derivations run once per (theme, dependency list) pair across
// all consumers.
package theme

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/agentuity/go-cssinjs/cache"
	"github.com/agentuity/go-cssinjs/hash"
)

// tokenPrefix is the first path segment of every token entry in the shared
// cache entity.
const tokenPrefix = "token"

// DeriveFunc produces a token object from a design-token input. It is
// assumed deterministic; cache correctness never depends on inspecting its
// output.
type DeriveFunc func(input any) any

// Theme pairs a derivation function with a stable identity. Two Themes
// created from the same function are still distinct cache keys.
type Theme struct {
	id     string
	derive DeriveFunc
}

// New returns a Theme wrapping derive. A nil derive acts as the identity
// function.
func New(derive DeriveFunc) *Theme {
	return &Theme{id: uuid.NewString(), derive: derive}
}

// ID returns the theme's unique identity.
func (t *Theme) ID() string {
	return t.id
}

// Derive runs the derivation function on input.
func (t *Theme) Derive(input any) any {
	if t.derive == nil {
		return input
	}
	return t.derive(input)
}

// TokenRecord is a derived token plus the hash of its derivation inputs.
// The hash is computed from (theme identity, salt, dependency list), never
// from the derived output, so identical inputs always share a hash even if
// the derivation function is not perfectly pure.
type TokenRecord struct {
	Token  any
	HashID string
}

// ReleaseFunc ends a consumer's use of an acquired token. Safe to call more
// than once; only the first call decrements the use count.
type ReleaseFunc func()

type config struct {
	entity *cache.Entity
	salt   string
}

// Option configures a TokenCache.
type Option func(*config)

// WithCache shares an existing entity (typically the same one backing a
// style register) instead of creating a private one.
func WithCache(e *cache.Entity) Option {
	return func(c *config) { c.entity = e }
}

// WithSalt mixes a salt into token hash ids.
func WithSalt(salt string) Option {
	return func(c *config) { c.salt = salt }
}

// TokenCache memoizes token derivation on a cache entity.
type TokenCache struct {
	entity *cache.Entity
	hasher hash.Hasher
	salt   string
}

// NewTokenCache returns a TokenCache.
func NewTokenCache(opts ...Option) *TokenCache {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.entity == nil {
		cfg.entity = cache.New()
	}
	return &TokenCache{
		entity: cfg.entity,
		hasher: hash.New(cfg.salt),
		salt:   cfg.salt,
	}
}

// Entity returns the backing cache entity.
func (c *TokenCache) Entity() *cache.Entity {
	return c.entity
}

// Acquire resolves the token for (theme, deps), deriving it from input on
// first use and returning the memoized record afterwards. Re-derivation
// happens only when the theme identity or the dependency list changes. The
// returned release func must be called when the consumer no longer needs
// the token; the entry is evicted one scheduler turn after its last release.
func (c *TokenCache) Acquire(th *Theme, input any, deps []any) (*TokenRecord, ReleaseFunc, error) {
	if th == nil {
		return nil, nil, errors.New("theme: nil theme")
	}
	themeIDHash, err := c.hasher.Hash(th.ID())
	if err != nil {
		return nil, nil, err
	}
	depsHash, err := c.hasher.Hash(deps)
	if err != nil {
		return nil, nil, err
	}
	path := []string{tokenPrefix, themeIDHash, depsHash}

	c.entity.OpUseCount(path, 1)
	v, err := c.entity.Update(path, func() (any, error) {
		hashID, err := c.hasher.Hash([]any{th.ID(), c.salt, deps})
		if err != nil {
			return nil, err
		}
		return &TokenRecord{Token: th.Derive(input), HashID: hashID}, nil
	})
	if err != nil {
		c.entity.OpUseCount(path, -1)
		return nil, nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() { c.entity.OpUseCount(path, -1) })
	}
	return v.(*TokenRecord), release, nil
}
