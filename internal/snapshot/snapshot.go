package snapshot

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/johan/skyblock-auctions/internal/hypixel"
)

// Snapshot is the complete set of active auctions as of one refresh.
// It is never modified after Refresh returns it.
type Snapshot struct {
	RefreshID string

	Success       bool
	Page          int // page index reported by the first response
	TotalPages    int
	TotalAuctions int
	LastUpdated   int64 // epoch millis, from the first response

	// Auctions holds page 0 first, then the other pages in completion order.
	Auctions []hypixel.Auction

	FetchedAt time.Time
	Duration  time.Duration
}

// UpdatedAt returns LastUpdated as a time.
func (s *Snapshot) UpdatedAt() time.Time { return time.UnixMilli(s.LastUpdated) }

// Len returns the number of auctions, or zero for a nil snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Auctions)
}

// BinCount returns how many auctions are buy-it-now.
func (s *Snapshot) BinCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for i := range s.Auctions {
		if s.Auctions[i].Bin {
			n++
		}
	}
	return n
}

// Holder keeps the current snapshot. Readers never see a partially built one.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// Load returns the current snapshot, or nil before the first successful refresh.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Store replaces the current snapshot and returns the previous one.
func (h *Holder) Store(s *Snapshot) *Snapshot {
	return h.current.Swap(s)
}

// Refresher produces new snapshots. *Assembler implements it.
type Refresher interface {
	Refresh(ctx context.Context) (*Snapshot, error)
}

// Update refreshes through r and stores the result. On failure the current
// snapshot is left in place.
func (h *Holder) Update(ctx context.Context, r Refresher) (*Snapshot, error) {
	s, err := r.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	h.Store(s)
	return s, nil
}
