package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/johan/skyblock-auctions/internal/hypixel"
)

// ErrInconsistentPages means the page count changed while a refresh was running.
var ErrInconsistentPages = errors.New("inconsistent page count")

// FetchError reports the page that made a refresh fail.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Progress describes one completed page.
type Progress struct {
	RefreshID  string
	Page       int
	TotalPages int
	Auctions   int // auctions on this page
	Completed  int // pages completed so far, including this one
}

// ProgressFunc observes completed pages. It is called from the goroutine
// running Refresh.
type ProgressFunc func(Progress)

// Assembler builds snapshots. Refresh always starts over from page 0.
type Assembler struct {
	source   PageSource
	fetcher  *PageFetcher
	limit    int
	log      logrus.FieldLogger
	progress ProgressFunc
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used for progress and warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Assembler) { a.log = l }
}

// WithProgress replaces the default progress logging.
func WithProgress(fn ProgressFunc) Option {
	return func(a *Assembler) { a.progress = fn }
}

// WithConcurrency bounds in-flight page requests. Zero means one per page.
func WithConcurrency(n int) Option {
	return func(a *Assembler) { a.limit = n }
}

// NewAssembler creates an assembler reading from source.
func NewAssembler(source PageSource, opts ...Option) *Assembler {
	a := &Assembler{
		source: source,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.progress == nil {
		a.progress = a.logProgress
	}
	a.fetcher = NewPageFetcher(source, a.limit)
	return a
}

// Refresh fetches every page and merges them. Any failed page fails the
// whole refresh; there are no retries.
func (a *Assembler) Refresh(ctx context.Context) (*Snapshot, error) {
	started := time.Now()
	id := uuid.NewString()
	log := a.log.WithField("refresh_id", id)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	first, err := a.source.FetchPage(ctx, 0)
	if err != nil {
		return nil, &FetchError{Page: 0, Err: err}
	}
	if !first.Success {
		return nil, &FetchError{Page: 0, Err: &hypixel.StatusError{Page: 0, Cause: first.Cause}}
	}

	m := newMerger(first.TotalAuctions)
	m.add(first.Auctions)
	completed := 1
	a.progress(Progress{RefreshID: id, Page: 0, TotalPages: first.TotalPages, Auctions: len(first.Auctions), Completed: completed})

	if first.TotalPages > 1 {
		pages := make([]int, 0, first.TotalPages-1)
		for i := 1; i < first.TotalPages; i++ {
			pages = append(pages, i)
		}

		for res := range a.fetcher.Fetch(ctx, pages) {
			if res.Err != nil {
				return nil, &FetchError{Page: res.Index, Err: res.Err}
			}
			if !res.Page.Success {
				return nil, &FetchError{Page: res.Index, Err: &hypixel.StatusError{Page: res.Index, Cause: res.Page.Cause}}
			}
			if res.Page.TotalPages != first.TotalPages {
				return nil, &FetchError{
					Page: res.Index,
					Err:  fmt.Errorf("%w: page 0 reported %d pages, page %d reported %d", ErrInconsistentPages, first.TotalPages, res.Index, res.Page.TotalPages),
				}
			}

			m.add(res.Page.Auctions)
			completed++
			a.progress(Progress{RefreshID: id, Page: res.Index, TotalPages: first.TotalPages, Auctions: len(res.Page.Auctions), Completed: completed})
		}

		if completed != first.TotalPages {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("refresh interrupted: %w", err)
			}
			return nil, fmt.Errorf("refresh incomplete: got %d of %d pages", completed, first.TotalPages)
		}
	}

	if m.duplicates > 0 {
		log.WithField("duplicates", m.duplicates).Warn("Dropped auctions seen on more than one page")
	}

	snap := &Snapshot{
		RefreshID:     id,
		Success:       first.Success,
		Page:          first.Page,
		TotalPages:    first.TotalPages,
		TotalAuctions: first.TotalAuctions,
		LastUpdated:   first.LastUpdated,
		Auctions:      m.auctions,
		FetchedAt:     time.Now(),
		Duration:      time.Since(started),
	}

	log.WithFields(logrus.Fields{
		"auctions": len(snap.Auctions),
		"pages":    snap.TotalPages,
		"elapsed":  snap.Duration.Round(time.Millisecond),
	}).Info("Refresh complete")

	return snap, nil
}

func (a *Assembler) logProgress(p Progress) {
	a.log.WithFields(logrus.Fields{
		"refresh_id":  p.RefreshID,
		"page":        p.Page,
		"total_pages": p.TotalPages,
		"auctions":    p.Auctions,
	}).Infof("Got page %d/%d with %d auctions", p.Completed, p.TotalPages, p.Auctions)
}

const maxSizeHint = 1 << 20

// merger appends pages while dropping repeated uuids. The live auction house
// shifts between requests, so one auction can appear on two pages.
type merger struct {
	auctions   []hypixel.Auction
	seen       map[string]struct{}
	duplicates int
}

func newMerger(sizeHint int) *merger {
	sizeHint = min(max(sizeHint, 0), maxSizeHint)
	return &merger{
		auctions: make([]hypixel.Auction, 0, sizeHint),
		seen:     make(map[string]struct{}, sizeHint),
	}
}

func (m *merger) add(auctions []hypixel.Auction) {
	for i := range auctions {
		id := auctions[i].UUID
		if _, dup := m.seen[id]; dup {
			m.duplicates++
			continue
		}
		m.seen[id] = struct{}{}
		m.auctions = append(m.auctions, auctions[i])
	}
}
