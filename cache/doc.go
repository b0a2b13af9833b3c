// Package cache provides the reference-counted, hierarchical store that
// backs token and style caching.
//
// # Entity
//
// An [Entity] maps an ordered sequence of string keys (a "path") to a cached
// value. Entries form a trie keyed by path segments; intermediate nodes carry
// no payload. Three properties make the Entity suitable as the single shared
// store behind style registration and server-side extraction:
//
//   - Compute-once: [Entity.Update] invokes its compute callback at most once
//     per path. A compute callback may call Update on a different path, but
//     synchronously re-entering the path it is computing fails with
//     [ErrReentrantCompute] rather than recursing. The in-flight state is an
//     explicit per-entry marker (empty, computing, done), so the error is
//     detectable and testable.
//
//   - Reference counting: consumers bracket their use of an entry with
//     [Entity.OpUseCount] (+1 on acquire, -1 on release). Counts propagate to
//     ancestor nodes and are clamped at zero.
//
//   - Deferred eviction: when a leaf's count reaches zero, eviction is
//     scheduled after a grace period ([DefaultClearDelay], configurable via
//     [WithClearDelay] or the CSSINJS_CLEAR_DELAY environment variable)
//     instead of firing immediately. A release immediately followed by an
//     acquire of the same path therefore never recomputes. The pending
//     eviction is cancelled by the re-acquire. Entries stored with
//     [Retain] are exempt and survive until an explicit [Entity.Clear].
//
// [Entity.Get] is a pure lookup: it never bumps use counts or access times.
// [Entity.Walk] visits entries in insertion order of first computation, which
// keeps extracted CSS cascade order reproducible across runs.
//
// # Concurrency
//
// All methods are mutex-guarded and safe for concurrent use. Compute
// callbacks and eviction callbacks run without the lock held.
package cache
