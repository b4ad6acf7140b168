package bidding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vendora/internal/auctionerrors"
)

// itemLocker hands out one serialization slot per auction item. Bids on the
// same item queue on the slot; bids on different items never contend.
// Slots are kept for the process lifetime, bounded by catalog size.
type itemLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newItemLocker() *itemLocker {
	return &itemLocker{slots: make(map[string]chan struct{})}
}

func (l *itemLocker) slot(itemID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[itemID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[itemID] = ch
	}
	return ch
}

// acquire takes the item's slot, waiting at most wait. On timeout the caller
// gets ErrItemBusy and no state has changed. The returned release function
// must be called exactly once.
func (l *itemLocker) acquire(ctx context.Context, itemID string, wait time.Duration) (func(), error) {
	ch := l.slot(itemID)

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, fmt.Errorf("item %s: %w", itemID, auctionerrors.ErrItemBusy)
	case <-ctx.Done():
		return nil, fmt.Errorf("item %s: %w", itemID, ctx.Err())
	}
}
