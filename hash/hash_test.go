package hash

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestHashDeterministic(t *testing.T) {
	a, err := Hash(map[string]any{"primaryColor": "#1677ff", "borderRadius": 6})
	assert.NoError(t, err)
	b, err := Hash(map[string]any{"borderRadius": 6, "primaryColor": "#1677ff"})
	assert.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, encodedLen)
}

func TestHashStructuralDifference(t *testing.T) {
	a, err := Hash(map[string]any{"primaryColor": "#1677ff"})
	assert.NoError(t, err)
	b, err := Hash(map[string]any{"primaryColor": "#1677fe"})
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashNested(t *testing.T) {
	v := map[string]any{
		"colors": map[string]any{"primary": "#1677ff", "error": "#ff4d4f"},
		"sizes":  []int{4, 8, 16},
	}
	a, err := Hash(v)
	assert.NoError(t, err)
	b, err := Hash(v)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHashSalt(t *testing.T) {
	a, err := New("one").Hash("value")
	assert.NoError(t, err)
	b, err := New("two").Hash("value")
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
	c, err := New("one").Hash("value")
	assert.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestHashRejectsFunc(t *testing.T) {
	_, err := Hash(map[string]any{"compute": func() {}})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrHashInput))
}

func TestHashRejectsChan(t *testing.T) {
	_, err := Hash([]any{make(chan int)})
	assert.True(t, errors.Is(err, ErrHashInput))
}

type cyclic struct {
	Name string
	Next *cyclic
}

func TestHashRejectsCycle(t *testing.T) {
	a := &cyclic{Name: "a"}
	b := &cyclic{Name: "b", Next: a}
	a.Next = b
	_, err := Hash(a)
	assert.True(t, errors.Is(err, ErrHashInput))
}

func TestHashCycleThroughMap(t *testing.T) {
	m := map[string]any{}
	m["self"] = m
	_, err := Hash(m)
	assert.True(t, errors.Is(err, ErrHashInput))
}

func TestHashSharedPointerIsNotACycle(t *testing.T) {
	shared := &cyclic{Name: "shared"}
	_, err := Hash([]any{shared, shared})
	assert.NoError(t, err)
}

func TestHashNil(t *testing.T) {
	a, err := Hash(nil)
	assert.NoError(t, err)
	assert.Len(t, a, encodedLen)
}
