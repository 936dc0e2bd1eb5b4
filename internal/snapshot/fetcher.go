// Package snapshot assembles a complete, consistent view of the auction
// house from its paginated API.
package snapshot

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/johan/skyblock-auctions/internal/hypixel"
)

// PageSource fetches a single zero-based page. *hypixel.Client implements it
// and already reports success:false as an error; other sources may return
// such a page, which the Assembler then rejects.
type PageSource interface {
	FetchPage(ctx context.Context, page int) (*hypixel.AuctionPage, error)
}

// PageResult is the outcome of fetching one page. Exactly one of Page and Err is set.
type PageResult struct {
	Index int
	Page  *hypixel.AuctionPage
	Err   error
}

// PageFetcher requests pages concurrently.
type PageFetcher struct {
	source PageSource
	limit  int
}

// NewPageFetcher creates a fetcher. A limit of zero or less allows one
// in-flight request per requested page.
func NewPageFetcher(source PageSource, limit int) *PageFetcher {
	return &PageFetcher{source: source, limit: limit}
}

// Fetch requests every page in pages and delivers results in completion
// order. The channel is closed once all requests have finished. The first
// failure is always delivered; after it, outstanding requests are cancelled
// and their results dropped, so callers may stop reading once they see an error.
// Callers that stop reading early for any other reason must cancel ctx.
func (f *PageFetcher) Fetch(ctx context.Context, pages []int) <-chan PageResult {
	results := make(chan PageResult)

	limit := f.limit
	if limit <= 0 || limit > len(pages) {
		limit = len(pages)
	}

	go func() {
		defer close(results)
		if len(pages) == 0 {
			return
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)

		for _, index := range pages {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				page, err := f.source.FetchPage(gctx, index)
				res := PageResult{Index: index, Page: page, Err: err}
				if err != nil {
					res.Page = nil
				}
				select {
				case results <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
				return err
			})
		}
		_ = g.Wait()
	}()

	return results
}
