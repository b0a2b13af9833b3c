package theme

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/agentuity/go-cssinjs/cache"
	"github.com/agentuity/go-cssinjs/hash"
)

type manualScheduler struct {
	pending []*func()
}

func (s *manualScheduler) schedule(_ time.Duration, fn func()) func() {
	p := &fn
	s.pending = append(s.pending, p)
	return func() { *p = nil }
}

func (s *manualScheduler) fire() {
	pending := s.pending
	s.pending = nil
	for _, p := range pending {
		if *p != nil {
			(*p)()
		}
	}
}

type seed struct {
	Primary string
}

func TestAcquireDerivesOnce(t *testing.T) {
	var derivations int
	th := New(func(input any) any {
		derivations++
		return map[string]string{"color": input.(seed).Primary}
	})
	tc := NewTokenCache()

	rec1, release1, err := tc.Acquire(th, seed{Primary: "#1677ff"}, []any{"v1"})
	assert.NoError(t, err)
	assert.NotEmpty(t, rec1.HashID)
	rec2, release2, err := tc.Acquire(th, seed{Primary: "#1677ff"}, []any{"v1"})
	assert.NoError(t, err)
	assert.Equal(t, 1, derivations)
	assert.Same(t, rec1, rec2)
	release1()
	release2()
}

func TestAcquireRederivesOnDepChange(t *testing.T) {
	var derivations int
	th := New(func(input any) any {
		derivations++
		return input
	})
	tc := NewTokenCache()
	_, _, err := tc.Acquire(th, "input", []any{"v1"})
	assert.NoError(t, err)
	rec, _, err := tc.Acquire(th, "input", []any{"v2"})
	assert.NoError(t, err)
	assert.Equal(t, 2, derivations)
	assert.NotEmpty(t, rec.HashID)
}

func TestDistinctThemesDistinctHashes(t *testing.T) {
	derive := func(input any) any { return input }
	a, b := New(derive), New(derive)
	tc := NewTokenCache()
	recA, _, err := tc.Acquire(a, "x", nil)
	assert.NoError(t, err)
	recB, _, err := tc.Acquire(b, "x", nil)
	assert.NoError(t, err)
	assert.NotEqual(t, recA.HashID, recB.HashID)
}

func TestReleaseEvictsAfterTick(t *testing.T) {
	sched := &manualScheduler{}
	entity := cache.New(cache.WithScheduler(sched.schedule))
	var derivations int
	th := New(func(input any) any {
		derivations++
		return input
	})
	tc := NewTokenCache(WithCache(entity))

	_, release, err := tc.Acquire(th, "x", nil)
	assert.NoError(t, err)
	release()
	release() // idempotent
	sched.fire()
	assert.Equal(t, 0, entity.Len())

	_, _, err = tc.Acquire(th, "x", nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, derivations)
}

func TestReleaseThenReacquireSameTick(t *testing.T) {
	sched := &manualScheduler{}
	entity := cache.New(cache.WithScheduler(sched.schedule))
	var derivations int
	th := New(func(input any) any {
		derivations++
		return input
	})
	tc := NewTokenCache(WithCache(entity))

	_, release, err := tc.Acquire(th, "x", nil)
	assert.NoError(t, err)
	release()
	_, _, err = tc.Acquire(th, "x", nil)
	assert.NoError(t, err)
	sched.fire()
	assert.Equal(t, 1, derivations)
	assert.Equal(t, 1, entity.Len())
}

func TestAcquireUnhashableDeps(t *testing.T) {
	tc := NewTokenCache()
	_, _, err := tc.Acquire(New(nil), "x", []any{func() {}})
	assert.True(t, errors.Is(err, hash.ErrHashInput))
}

func TestNilDeriveIsIdentity(t *testing.T) {
	tc := NewTokenCache()
	rec, _, err := tc.Acquire(New(nil), "passthrough", nil)
	assert.NoError(t, err)
	assert.Equal(t, "passthrough", rec.Token)
}
