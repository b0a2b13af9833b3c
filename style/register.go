package style

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/agentuity/go-cssinjs/cache"
	"github.com/agentuity/go-cssinjs/dom"
	"github.com/agentuity/go-cssinjs/hash"
	"github.com/agentuity/go-cssinjs/theme"
)

// stylePrefix is the first path segment of every style entry in the cache
// entity, keeping style and token entries in disjoint subtrees.
const stylePrefix = "style"

// StyleFactory produces the style description for a cache miss. It runs at
// most once per unique (token, path, options) combination.
type StyleFactory func() CSSObject

// StyleOptions are per-registration options that participate in the style's
// identity.
type StyleOptions struct {
	// Salt is an extra identity component mixed into the style id.
	Salt string
	// Force discards any cached entry and document marker for this style
	// and recompiles.
	Force bool
}

// Record is a compiled style held in the cache entity.
type Record struct {
	StyleID   string
	TokenHash string
	Path      []string
	CSSText   string
}

// Registration is the result of a RegisterStyle call. StyleID is stable and
// usable as a class name.
type Registration struct {
	StyleID string
	CSSText string

	inline  string
	release func()
}

// Release ends this consumer's use of the style. Safe to call more than
// once; only the first call decrements the use count.
func (r *Registration) Release() {
	if r.release != nil {
		r.release()
	}
}

// InlineMarkup returns the style's markup for inline embedding. Non-empty
// only for server-mode registers created with WithSSRInline.
func (r *Registration) InlineMarkup() string {
	return r.inline
}

// live tracks register instances that currently exist, so a startup scan can
// tell adopted markers from orphans.
var (
	liveMu sync.Mutex
	live   = map[string]struct{}{}
)

func isLive(tag string) bool {
	liveMu.Lock()
	defer liveMu.Unlock()
	_, ok := live[tag]
	return ok
}

// Register computes, caches, deduplicates, and injects styles. Create one
// per document scope with New; independent registers sharing a document
// deduplicate through document markers.
type Register struct {
	cfg    config
	entity *cache.Entity
	hasher hash.Hasher
	id     string
}

// New returns a Register. When a container is configured, existing document
// markers are scanned: duplicates sharing a style hash are reduced to the
// earliest, and markers owned by no live register are adopted.
func New(opts ...Option) *Register {
	cfg := applyOptions(opts)
	entity := cfg.entity
	if entity == nil {
		entity = cache.New(cache.WithLogger(cfg.log))
	}
	r := &Register{
		cfg:    cfg,
		entity: entity,
		hasher: hash.New(cfg.salt),
		id:     uuid.NewString(),
	}
	liveMu.Lock()
	live[r.id] = struct{}{}
	liveMu.Unlock()
	if cfg.container != nil {
		r.adoptExisting()
	}
	return r
}

// ID returns the register's instance identifier, used as the instance tag on
// markers it creates.
func (r *Register) ID() string {
	return r.id
}

// Entity returns the backing cache entity, for sharing with a token cache or
// an extractor.
func (r *Register) Entity() *cache.Entity {
	return r.entity
}

// Container returns the injection target, nil in server mode.
func (r *Register) Container() *dom.Document {
	return r.cfg.container
}

// RegisterStyle resolves the style identified by (token, path, opts),
// compiling and injecting it on first use. The factory is not invoked when
// the style is already cached or when a compatible document marker exists
// (the server-rendered handoff case). The returned Registration carries the
// style id and a Release func bracketing this consumer's use.
func (r *Register) RegisterStyle(tok *theme.TokenRecord, path []string, opts StyleOptions, factory StyleFactory) (*Registration, error) {
	if tok == nil {
		return nil, errors.New("style: nil token record")
	}
	if factory == nil {
		return nil, errors.New("style: nil style factory")
	}
	idHash, err := r.hasher.Hash([]any{tok.HashID, path, opts.Salt})
	if err != nil {
		return nil, err
	}
	styleID := "css-" + idHash
	fullPath := append([]string{stylePrefix, tok.HashID}, path...)

	if opts.Force {
		r.entity.Clear(fullPath)
		// The marker goes too, even when it has no cache entry behind it
		// (e.g. hydrated markup that was never registered), so the
		// recompiled style is re-injected below.
		if r.cfg.container != nil {
			if n := r.cfg.container.FindByStyleHash(styleID); n != nil {
				r.cfg.container.Remove(n)
			}
		}
	}

	var preexisting *dom.StyleNode
	if r.cfg.container != nil && !opts.Force {
		preexisting = r.cfg.container.FindByStyleHash(styleID)
	}

	r.entity.OpUseCount(fullPath, 1)
	v, err := r.entity.Update(fullPath, func() (any, error) {
		if preexisting != nil {
			// A prior render pass (possibly server-side) already produced
			// this style; replay it without recompiling.
			return &Record{
				StyleID:   styleID,
				TokenHash: tok.HashID,
				Path:      append([]string(nil), path...),
				CSSText:   preexisting.CSSText,
			}, nil
		}
		cssText, diags := r.cfg.compiler.Compile(factory(), CompileOptions{
			HashID:       styleID,
			HashPriority: r.cfg.hashPriority,
			Path:         append([]string(nil), path...),
			Dev:          r.cfg.dev,
		})
		r.report(diags)
		return &Record{
			StyleID:   styleID,
			TokenHash: tok.HashID,
			Path:      append([]string(nil), path...),
			CSSText:   cssText,
		}, nil
	}, cache.Retain(!r.cfg.autoClear), cache.OnEvict(r.onEvict))
	if err != nil {
		r.entity.OpUseCount(fullPath, -1)
		return nil, err
	}
	rec := v.(*Record)

	r.inject(rec)

	var once sync.Once
	reg := &Registration{
		StyleID: rec.StyleID,
		CSSText: rec.CSSText,
		release: func() {
			once.Do(func() { r.entity.OpUseCount(fullPath, -1) })
		},
	}
	if r.cfg.ssrInline && r.cfg.container == nil {
		reg.inline = dom.NewStyleNode(rec.TokenHash, rec.StyleID, rec.CSSText, "").Markup()
	}
	return reg, nil
}

// Records returns the register's style records in insertion order of first
// registration. Token entries sharing the entity are skipped.
func (r *Register) Records() []Record {
	var out []Record
	r.entity.Walk(func(_ []string, value any) {
		if rec, ok := value.(*Record); ok {
			out = append(out, *rec)
		}
	})
	return out
}

// Close tears the register down: its markers are removed from the container,
// its instance stops being live, and a private entity is cleared. Shared
// entities are left to their other owners.
func (r *Register) Close() {
	liveMu.Lock()
	delete(live, r.id)
	liveMu.Unlock()
	if !r.cfg.shared {
		r.entity.Clear(nil)
	}
	if r.cfg.container != nil {
		for _, n := range r.cfg.container.Nodes() {
			if n.InstanceTag() == r.id {
				r.cfg.container.Remove(n)
			}
		}
	}
}

// inject places the record's marker in the container. Present markers are
// never replaced; orphaned ones are adopted instead.
func (r *Register) inject(rec *Record) {
	if r.cfg.container == nil {
		return
	}
	if existing := r.cfg.container.FindByStyleHash(rec.StyleID); existing != nil {
		if !isLive(existing.InstanceTag()) {
			existing.Retag(r.id)
		}
		return
	}
	r.cfg.container.Insert(dom.NewStyleNode(rec.TokenHash, rec.StyleID, rec.CSSText, r.id))
}

// onEvict removes the evicted style's marker. Markers owned by another live
// register are left alone; that register's cache entry still references
// them.
func (r *Register) onEvict(value any) {
	rec, ok := value.(*Record)
	if !ok || r.cfg.container == nil {
		return
	}
	if n := r.cfg.container.FindByStyleHash(rec.StyleID); n != nil {
		if tag := n.InstanceTag(); tag == r.id || !isLive(tag) {
			r.cfg.container.Remove(n)
		}
	}
}

// adoptExisting reconciles markers left in the container by earlier render
// passes: duplicates sharing one style hash collapse to the earliest, and
// markers owned by no live register are adopted by this one. Markers that
// share a hash but disagree on CSS text indicate a collision or external
// injection; the earliest wins and a warning is logged.
func (r *Register) adoptExisting() {
	seen := map[string]*dom.StyleNode{}
	for _, n := range r.cfg.container.Nodes() {
		first, dup := seen[n.StyleHash]
		if dup {
			if first.CSSText != n.CSSText {
				r.cfg.log.Warn("style: adoption conflict for %s: duplicate markers disagree on css text, keeping the earliest", n.StyleHash)
			}
			r.cfg.container.Remove(n)
			continue
		}
		seen[n.StyleHash] = n
		if !isLive(n.InstanceTag()) {
			n.Retag(r.id)
		}
	}
}

// report sends lint diagnostics to the logger. Diagnostics are advisory and
// only produced in development mode.
func (r *Register) report(diags []Diagnostic) {
	for _, d := range diags {
		r.cfg.log.Warn("lint(%s): %s", d.Rule, d.Message)
	}
}
