package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/ofiscan/ofiscan/internal/listing"
	"github.com/ofiscan/ofiscan/internal/logger"
)

// PageResult carries one processed index page. Empty marks the
// pagination terminator: the page yielded no previews at all.
type PageResult struct {
	Start   int
	Records []listing.Record
	Empty   bool
}

// crawlPage fetches one index page and processes every listing on it.
func (c *Crawler) crawlPage(ctx context.Context, start int) PageResult {
	stubs := c.fetchPage(ctx, start)
	if len(stubs) == 0 {
		return PageResult{Start: start, Empty: true}
	}
	return PageResult{Start: start, Records: c.drivePage(ctx, stubs)}
}

// fetchPage returns the page's previews, swallowing failure into
// emptiness. The site has no explicit last-page marker, so an
// unreachable index reads the same as the end of pagination.
func (c *Crawler) fetchPage(ctx context.Context, start int) []listing.Stub {
	stubs, err := c.source.ListPage(ctx, start)
	if err != nil {
		logger.Warn("page fetch failed, stopping pagination", "start", start, "error", err)
		return nil
	}
	if len(stubs) == 0 {
		logger.Info("no listings found", "start", start)
		return nil
	}
	logger.Info("page fetched", "start", start, "listings", len(stubs))
	return stubs
}

// drivePage fans the page's listings out across the worker budget and
// collects the survivors. Admission is slot-based only: one stalled
// listing never blocks the others, and results arrive in completion
// order, not input order.
func (c *Crawler) drivePage(ctx context.Context, stubs []listing.Stub) []listing.Record {
	sem := make(chan struct{}, c.config.Workers)
	out := make(chan listing.Record, len(stubs))
	var wg sync.WaitGroup

admit:
	for _, stub := range stubs {
		select {
		case <-ctx.Done():
			break admit
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(stub listing.Stub) {
			defer wg.Done()
			defer func() { <-sem }()

			if c.config.ListingDelay > 0 {
				if err := sleepCtx(ctx, c.config.ListingDelay); err != nil {
					return
				}
			}
			if rec, ok := c.processListing(ctx, stub); ok {
				out <- rec
			}
		}(stub)
	}

	wg.Wait()
	close(out)

	records := make([]listing.Record, 0, len(stubs))
	for rec := range out {
		records = append(records, rec)
	}
	return records
}

// processListing turns one preview into a full record. A listing whose
// detail page is unreachable or empty is dropped outright; a failed
// phone reveal keeps the record, just without a number.
func (c *Crawler) processListing(ctx context.Context, stub listing.Stub) (listing.Record, bool) {
	logger.Debug("processing listing", "id", stub.ID, "url", stub.URL)

	detail, err := c.source.Detail(ctx, stub.URL)
	if err != nil {
		logger.Info("listing dropped", "id", stub.ID, "error", err)
		return listing.Record{}, false
	}

	rec := listing.Merge(stub, detail)
	if c.config.SkipPhones || rec.Call == nil || !rec.Call.Usable() {
		return rec, true
	}

	tel, err := c.source.Phone(ctx, *rec.Call)
	if err != nil {
		logger.Info("phone unresolved", "id", stub.ID, "error", err)
		return rec, true
	}
	rec.Phone = tel
	logger.Debug("phone resolved", "id", stub.ID)
	return rec, true
}

// sleepCtx pauses for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
