package rendercache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	draws    int
	releases int
}

func (h *fakeHandle) Draw()    { h.draws++ }
func (h *fakeHandle) Release() { h.releases++ }

func TestGetBuildsOnce(t *testing.T) {
	c := New()
	builds := 0
	build := func() (Handle, error) {
		builds++
		return &fakeHandle{}, nil
	}

	first, err := c.Get(7, build)
	require.NoError(t, err)
	second, err := c.Get(7, build)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestGetKeysByShader(t *testing.T) {
	c := New()
	build := func() (Handle, error) { return &fakeHandle{}, nil }

	a, err := c.Get(1, build)
	require.NoError(t, err)
	b, err := c.Get(2, build)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, c.Len())
}

func TestFailedBuildNotCached(t *testing.T) {
	c := New()
	errBoom := errors.New("boom")

	_, err := c.Get(3, func() (Handle, error) { return nil, errBoom })
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, c.Len())

	_, err = c.Get(3, func() (Handle, error) { return nil, nil })
	assert.Error(t, err)
	assert.Zero(t, c.Len())

	h, err := c.Get(3, func() (Handle, error) { return &fakeHandle{}, nil })
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Equal(t, 1, c.Len())
}

func TestInvalidateReleases(t *testing.T) {
	c := New()
	handles := []*fakeHandle{{}, {}}
	for i, h := range handles {
		h := h
		_, err := c.Get(i, func() (Handle, error) { return h, nil })
		require.NoError(t, err)
	}

	c.Invalidate()
	assert.Zero(t, c.Len())
	for _, h := range handles {
		assert.Equal(t, 1, h.releases)
	}

	_, ok := c.Lookup(0)
	assert.False(t, ok)
}

func TestInsertReplaces(t *testing.T) {
	c := New()
	old := &fakeHandle{}
	c.Insert(1, old)
	c.Insert(1, old)
	assert.Zero(t, old.releases)

	c.Insert(1, &fakeHandle{})
	assert.Equal(t, 1, old.releases)
	assert.Equal(t, 1, c.Len())
}
