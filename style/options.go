package style

import (
	"os"

	"github.com/agentuity/go-common/logger"

	"github.com/agentuity/go-cssinjs/cache"
	"github.com/agentuity/go-cssinjs/dom"
)

// HashPriority controls how the hashed class selector is expressed. It
// affects only selector specificity, never caching or identity.
type HashPriority string

const (
	// HashPriorityLow wraps the hashed class in :where(), keeping its
	// specificity at zero so caller styles win.
	HashPriorityLow HashPriority = "low"
	// HashPriorityHigh uses the bare hashed class selector.
	HashPriorityHigh HashPriority = "high"
)

// ProductionEnv disables lint diagnostics when set to "production".
const ProductionEnv = "CSSINJS_ENV"

type config struct {
	entity       *cache.Entity
	shared       bool
	container    *dom.Document
	autoClear    bool
	hashPriority HashPriority
	ssrInline    bool
	salt         string
	dev          bool
	log          logger.Logger
	compiler     Compiler
}

// Option configures a Register.
type Option func(*config)

func defaultConfig() config {
	return config{
		hashPriority: HashPriorityLow,
		dev:          os.Getenv(ProductionEnv) != "production",
		log:          logger.NewConsoleLogger(logger.LevelWarn),
		compiler:     NewSerializer(),
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithContainer sets the target document for style injection. Without a
// container the register runs in server mode: styles accumulate in the cache
// for extraction instead of being injected.
func WithContainer(d *dom.Document) Option {
	return func(c *config) { c.container = d }
}

// WithCache shares an existing entity (typically with a theme.TokenCache or
// an extractor) instead of creating a private one. Shared entities are not
// cleared on Close.
func WithCache(e *cache.Entity) Option {
	return func(c *config) {
		c.entity = e
		c.shared = true
	}
}

// WithAutoClear evicts style entries (and removes their document markers)
// once their last consumer releases. The default retains styles
// indefinitely.
func WithAutoClear() Option {
	return func(c *config) { c.autoClear = true }
}

// WithHashPriority sets selector specificity for the hashed class.
func WithHashPriority(p HashPriority) Option {
	return func(c *config) { c.hashPriority = p }
}

// WithSSRInline makes server-mode registrations carry their own inline
// styling markup, for flows that embed styles next to rendered output
// instead of extracting them in one batch.
func WithSSRInline() Option {
	return func(c *config) { c.ssrInline = true }
}

// WithSalt mixes a salt into style ids, namespacing hashes between
// independent configurations.
func WithSalt(salt string) Option {
	return func(c *config) { c.salt = salt }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithCompiler replaces the default CSS serializer.
func WithCompiler(comp Compiler) Option {
	return func(c *config) { c.compiler = comp }
}

// WithDev forces development mode on or off, overriding the CSSINJS_ENV
// default. Lint diagnostics are emitted only in development mode.
func WithDev(dev bool) Option {
	return func(c *config) { c.dev = dev }
}
