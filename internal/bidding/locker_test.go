package bidding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vendora/internal/auctionerrors"

	"github.com/stretchr/testify/require"
)

// Tests acquire and release
func TestItemLocker_Acquire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("free_slot_is_immediate", func(t *testing.T) {
		t.Parallel()

		l := newItemLocker()
		release, err := l.acquire(ctx, "item1", time.Millisecond)
		require.NoError(t, err)
		release()

		// reacquire after release
		release, err = l.acquire(ctx, "item1", time.Millisecond)
		require.NoError(t, err)
		release()
	})

	t.Run("different_items_never_contend", func(t *testing.T) {
		t.Parallel()

		l := newItemLocker()
		release1, err := l.acquire(ctx, "item1", time.Millisecond)
		require.NoError(t, err)
		defer release1()

		release2, err := l.acquire(ctx, "item2", time.Millisecond)
		require.NoError(t, err)
		release2()
	})

	t.Run("held_slot_times_out_as_busy", func(t *testing.T) {
		t.Parallel()

		l := newItemLocker()
		release, err := l.acquire(ctx, "item1", time.Millisecond)
		require.NoError(t, err)

		_, err = l.acquire(ctx, "item1", 20*time.Millisecond)
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrItemBusy))

		release()
	})

	t.Run("waiter_gets_slot_on_release", func(t *testing.T) {
		t.Parallel()

		l := newItemLocker()
		release, err := l.acquire(ctx, "item1", time.Millisecond)
		require.NoError(t, err)

		acquired := make(chan struct{})
		go func() {
			r, err := l.acquire(ctx, "item1", time.Second)
			if err == nil {
				r()
				close(acquired)
			}
		}()

		time.Sleep(10 * time.Millisecond)
		release()

		select {
		case <-acquired:
		case <-time.After(time.Second):
			t.Fatal("waiter never acquired the released slot")
		}
	})

	t.Run("cancelled_context", func(t *testing.T) {
		t.Parallel()

		l := newItemLocker()
		release, err := l.acquire(ctx, "item1", time.Millisecond)
		require.NoError(t, err)
		defer release()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err = l.acquire(cancelled, "item1", time.Second)
		require.Error(t, err)
		require.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("mutual_exclusion", func(t *testing.T) {
		t.Parallel()

		l := newItemLocker()
		var wg sync.WaitGroup
		inSection := 0
		maxInSection := 0
		var mu sync.Mutex

		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := l.acquire(ctx, "item1", time.Second)
				require.NoError(t, err)

				mu.Lock()
				inSection++
				if inSection > maxInSection {
					maxInSection = inSection
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inSection--
				mu.Unlock()

				release()
			}()
		}
		wg.Wait()

		require.Equal(t, 1, maxInSection, "at most one holder per item slot")
	})
}
