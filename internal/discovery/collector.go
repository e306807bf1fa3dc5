package discovery

import (
	"context"
	"net/url"
	"sync"

	"github.com/huin/goupnp"
	"github.com/muurk/upnpc/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrentFetches bounds the number of description requests in flight
const DefaultMaxConcurrentFetches = 8

// fetchFunc retrieves and parses a device description
type fetchFunc func(ctx context.Context, loc *url.URL) (*goupnp.RootDevice, error)

// collector turns description locations into stream results. It is shared
// by the active scanner and the passive listener.
type collector struct {
	ctx       context.Context
	group     *errgroup.Group
	out       chan Result
	fetch     fetchFunc
	keepGoing bool

	mu     sync.Mutex
	seen   map[string]bool
	sealed bool
}

func newCollector(ctx context.Context, fetch fetchFunc, keepGoing bool, limit int) *collector {
	group, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}
	return &collector{
		ctx:       gctx,
		group:     group,
		out:       make(chan Result),
		fetch:     fetch,
		keepGoing: keepGoing,
		seen:      make(map[string]bool),
	}
}

// add schedules a description fetch for a location not seen before.
// It reports whether the location was new.
func (c *collector) add(loc *url.URL, usn string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := loc.String()
	if c.sealed || c.seen[key] || c.ctx.Err() != nil {
		return false
	}
	c.seen[key] = true
	logging.LogResponse(key, usn)

	c.group.Go(func() error {
		return c.resolve(loc, usn)
	})
	return true
}

func (c *collector) resolve(loc *url.URL, usn string) error {
	root, err := c.fetch(c.ctx, loc)
	if err != nil {
		if c.ctx.Err() != nil {
			// Stream closed or another fetch failed first
			return nil
		}
		logging.LogDescriptionError(loc.String(), err)
		if c.keepGoing {
			return nil
		}
		descErr := newDescriptionError(loc.String(), usn, err)
		c.send(Result{Err: descErr})
		return descErr
	}

	c.send(Result{Device: newDevice(root, loc, usn)})
	return nil
}

// send delivers a result unless the stream has been cancelled
func (c *collector) send(r Result) bool {
	select {
	case c.out <- r:
		return true
	case <-c.ctx.Done():
		return false
	}
}

// done is closed once the stream is closed or a fetch failed fatally
func (c *collector) done() <-chan struct{} {
	return c.ctx.Done()
}

// finish stops accepting locations, waits for pending fetches and closes
// the result channel
func (c *collector) finish() {
	c.mu.Lock()
	c.sealed = true
	c.mu.Unlock()

	_ = c.group.Wait()
	close(c.out)
}
