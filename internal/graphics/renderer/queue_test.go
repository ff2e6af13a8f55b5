package renderer

import (
	"testing"

	"graphx/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueIsFIFO(t *testing.T) {
	dev := gputest.NewDevice()
	mat := &fakeMaterial{shader: gputest.NewShader(dev, "mesh")}
	a := newDrawable(dev, mat, mgl32.Ident4())
	b := newDrawable(dev, mat, mgl32.Ident4())
	c := newDrawable(dev, mat, mgl32.Ident4())

	var q Queue
	q.Submit(a)
	q.Submit(b)
	q.Submit(c)
	require.Equal(t, 3, q.Len())

	var seen []Drawable
	q.Each(func(d Drawable) { seen = append(seen, d) })
	assert.Equal(t, []Drawable{a, b, c}, seen)
	assert.Equal(t, 3, q.Len(), "Each must not drain")

	for _, want := range []Drawable{a, b, c} {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Same(t, want, got)
	}
	_, ok := q.Pop()
	assert.False(t, ok)
	assert.Zero(t, q.Len())
}

func TestQueueClear(t *testing.T) {
	dev := gputest.NewDevice()
	mat := &fakeMaterial{shader: gputest.NewShader(dev, "mesh")}

	var q Queue
	q.Submit(newDrawable(dev, mat, mgl32.Ident4()))
	q.Submit(newDrawable(dev, mat, mgl32.Ident4()))
	_, _ = q.Pop()
	q.Clear()
	assert.Zero(t, q.Len())

	d := newDrawable(dev, mat, mgl32.Ident4())
	q.Submit(d)
	got, ok := q.Pop()
	require.True(t, ok)
	assert.Same(t, d, got)
}
