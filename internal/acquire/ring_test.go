package acquire

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingRecordWraps(t *testing.T) {
	r := NewRing(4)
	for i := 0; i < 4; i++ {
		assert.Equal(t, i, r.Cursor())
		r.Record(uint16(i))
	}
	assert.Equal(t, 0, r.Cursor())

	r.Record(9)
	assert.Equal(t, 1, r.Cursor())
}

func TestRingSnapshotOrdersOldestFirst(t *testing.T) {
	const n = 37
	rng := rand.New(rand.NewSource(7))

	// todas las posiciones posibles del cursor, con el anillo ya lleno
	for written := n; written < 2*n+1; written++ {
		r := NewRing(n)
		history := make([]uint16, 0, written)
		for i := 0; i < written; i++ {
			s := uint16(rng.Intn(4096))
			r.Record(s)
			history = append(history, s)
		}

		out := make([]uint16, n)
		require.NoError(t, r.Snapshot(out))

		want := history[len(history)-n:]
		assert.Equal(t, want, out, "written=%d cursor=%d", written, r.Cursor())
		assert.Equal(t, history[len(history)-n], out[0])
		assert.Equal(t, history[len(history)-1], out[n-1])
	}
}

func TestRingSnapshotPartiallyFilled(t *testing.T) {
	r := NewRing(5)
	r.Record(10)
	r.Record(20)

	out := make([]uint16, 5)
	require.NoError(t, r.Snapshot(out))
	assert.Equal(t, []uint16{0, 0, 0, 10, 20}, out)
}

func TestRingSnapshotLengthMismatch(t *testing.T) {
	r := NewRing(5)
	assert.ErrorIs(t, r.Snapshot(make([]uint16, 4)), ErrLengthMismatch)
}
