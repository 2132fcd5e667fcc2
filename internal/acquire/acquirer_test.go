package acquire

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startAcquirer(t *testing.T, n, backlog int) (*Acquirer, context.CancelFunc) {
	t.Helper()
	a := NewAcquirer(NewRing(n), backlog)
	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)
	t.Cleanup(cancel)
	return a, cancel
}

func TestAcquirerSnapshot(t *testing.T) {
	const n = 10
	a, _ := startAcquirer(t, n, 64)

	for i := 1; i <= 25; i++ {
		require.True(t, a.Record(uint16(i)))
	}
	require.Eventually(t, func() bool { return a.Recorded() == 25 }, time.Second, time.Millisecond)

	out := make([]uint16, n)
	require.NoError(t, a.Snapshot(context.Background(), out))
	assert.Equal(t, []uint16{16, 17, 18, 19, 20, 21, 22, 23, 24, 25}, out)

	// la adquisición se reanuda tras el snapshot
	require.True(t, a.Record(26))
	require.Eventually(t, func() bool { return a.Recorded() == 26 }, time.Second, time.Millisecond)
	require.NoError(t, a.Snapshot(context.Background(), out))
	assert.Equal(t, uint16(17), out[0])
	assert.Equal(t, uint16(26), out[n-1])
}

func TestAcquirerSnapshotIncludesQueuedSamples(t *testing.T) {
	const n = 10
	for trial := 0; trial < 50; trial++ {
		a, cancel := startAcquirer(t, n, 64)

		for i := 1; i <= 40; i++ {
			require.True(t, a.Record(uint16(i)))
		}

		out := make([]uint16, n)
		require.NoError(t, a.Snapshot(context.Background(), out))
		assert.Equal(t, []uint16{31, 32, 33, 34, 35, 36, 37, 38, 39, 40}, out)
		assert.Equal(t, uint64(40), a.Recorded())
		assert.Zero(t, a.Dropped())
		cancel()
	}
}

func TestAcquirerDropsWhilePaused(t *testing.T) {
	a, _ := startAcquirer(t, 4, 8)

	a.paused.Store(true)
	assert.False(t, a.Record(1))
	assert.Equal(t, uint64(1), a.Dropped())
	a.paused.Store(false)

	assert.True(t, a.Record(2))
}

func TestAcquirerConcurrentSnapshotsAreNotTorn(t *testing.T) {
	const n = 50
	a, _ := startAcquirer(t, n, 256)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		// muestras monótonas: un snapshot sin desgarro es estrictamente creciente
		var s uint16 = 1
		for s < 60000 {
			select {
			case <-stop:
				return
			default:
			}
			if a.Record(s) {
				s++
			}
		}
	}()

	require.Eventually(t, func() bool { return a.Recorded() > 2*n }, time.Second, time.Millisecond)

	out := make([]uint16, n)
	for i := 0; i < 50; i++ {
		require.NoError(t, a.Snapshot(context.Background(), out))
		for j := 1; j < n; j++ {
			require.Less(t, out[j-1], out[j], "snapshot %d torn at %d", i, j)
		}
	}
}

func TestAcquirerSnapshotAfterStop(t *testing.T) {
	a, cancel := startAcquirer(t, 4, 1)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case <-a.done:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	err := a.Snapshot(context.Background(), make([]uint16, 4))
	assert.ErrorIs(t, err, ErrStopped)
}

func TestAcquirerSnapshotLengthMismatch(t *testing.T) {
	a, _ := startAcquirer(t, 4, 1)
	assert.ErrorIs(t, a.Snapshot(context.Background(), make([]uint16, 3)), ErrLengthMismatch)
}
