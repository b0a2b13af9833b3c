package cache

import (
	"os"
	"time"

	"github.com/agentuity/go-common/logger"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// DefaultClearDelay is the grace period between a use count reaching zero
// and the entry being evicted. Zero means "the next scheduler turn", which
// is enough to absorb an unmount immediately followed by a remount.
const DefaultClearDelay = time.Duration(0)

// ClearDelayEnv overrides the default clear delay when set to a parseable
// duration string (e.g. "50ms", "1s").
const ClearDelayEnv = "CSSINJS_CLEAR_DELAY"

// Scheduler defers fn by at least delay and returns a cancel function.
// The default implementation is backed by time.AfterFunc; tests inject a
// manual scheduler to drive eviction deterministically.
type Scheduler func(delay time.Duration, fn func()) (cancel func())

func defaultScheduler(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

type config struct {
	clearDelay time.Duration
	scheduler  Scheduler
	logger     logger.Logger
}

// Option configures an Entity.
type Option func(*config)

func defaultConfig() config {
	cfg := config{
		clearDelay: DefaultClearDelay,
		scheduler:  defaultScheduler,
	}
	if v := os.Getenv(ClearDelayEnv); v != "" {
		if d, err := str2duration.ParseDuration(v); err == nil {
			cfg.clearDelay = d
		}
	}
	return cfg
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithClearDelay sets the eviction grace period. Defaults to
// DefaultClearDelay, overridable via the CSSINJS_CLEAR_DELAY environment
// variable.
func WithClearDelay(d time.Duration) Option {
	return func(c *config) { c.clearDelay = d }
}

// WithScheduler replaces the eviction scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *config) { c.scheduler = s }
}

// WithLogger enables trace logging of compute and eviction events.
func WithLogger(l logger.Logger) Option {
	return func(c *config) { c.logger = l }
}

type updateOptions struct {
	retain  bool
	onEvict func(value any)
}

// UpdateOption configures a single Update call.
type UpdateOption func(*updateOptions)

func applyUpdateOptions(opts []UpdateOption) updateOptions {
	var uo updateOptions
	for _, opt := range opts {
		opt(&uo)
	}
	return uo
}

// Retain exempts the entry from zero-count eviction. Retained entries are
// removed only by an explicit Clear.
func Retain(retain bool) UpdateOption {
	return func(o *updateOptions) { o.retain = retain }
}

// OnEvict registers a callback invoked with the entry's value when the entry
// is evicted or cleared. The callback runs without the entity lock held.
func OnEvict(fn func(value any)) UpdateOption {
	return func(o *updateOptions) { o.onEvict = fn }
}
