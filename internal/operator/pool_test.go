package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AllFree(t *testing.T) {
	p := New(3)
	assert.Equal(t, 3, p.Free())
	assert.EqualValues(t, 3, p.Capacity())
}

func TestTryAcquire_ExhaustsPool(t *testing.T) {
	p := New(2)
	id1, ok := p.TryAcquire()
	require.True(t, ok)
	id2, ok := p.TryAcquire()
	require.True(t, ok)
	assert.NotEqual(t, id1, id2)

	_, ok = p.TryAcquire()
	assert.False(t, ok, "pool should be exhausted")
}

func TestRelease_ReturnsToFreeSet(t *testing.T) {
	p := New(1)
	id, _ := p.TryAcquire()
	assert.Equal(t, 0, p.Free())

	p.Release(id)
	assert.Equal(t, 1, p.Free())
}

func TestRelease_DroppedAboveCapacity(t *testing.T) {
	p := New(3)
	p.Release(99) // never acquired, above capacity
	assert.Equal(t, 3, p.Free(), "out-of-range release must be silently ignored")
}

// P10 / scenario 6: shrink during active calls must not leak operator
// slots nor abort in-flight work.
func TestResize_ShrinkDuringActiveCall(t *testing.T) {
	p := New(3)
	id3, _ := p.TryAcquire() // operator 3: acquire pops the last free id
	_, _ = p.TryAcquire()    // operator 2
	_, _ = p.TryAcquire()    // operator 1
	require.EqualValues(t, 3, id3)

	require.True(t, p.Resize(2))
	assert.EqualValues(t, 2, p.Capacity())
	assert.Equal(t, 0, p.Free())

	// The holder of operator 3 eventually releases; the release must be
	// dropped, not reintroduced into the shrunk pool.
	p.Release(id3)
	assert.Equal(t, 0, p.Free())
	assert.EqualValues(t, 2, p.Capacity())
}

func TestResize_GrowAppendsNewIDs(t *testing.T) {
	p := New(1)
	require.True(t, p.Resize(3))
	assert.Equal(t, 3, p.Free())
	assert.EqualValues(t, 3, p.Capacity())
}

func TestResize_RejectsZero(t *testing.T) {
	p := New(2)
	assert.False(t, p.Resize(0))
	assert.EqualValues(t, 2, p.Capacity())
}

// P6: free + inFlight == nOperators at every quiescent point.
func TestOperatorConservation(t *testing.T) {
	p := New(4)
	var acquired []uint64
	for i := 0; i < 4; i++ {
		id, ok := p.TryAcquire()
		require.True(t, ok)
		acquired = append(acquired, id)
	}
	assert.Equal(t, 0, p.Free())
	for _, id := range acquired {
		p.Release(id)
	}
	assert.Equal(t, 4, p.Free())
}
