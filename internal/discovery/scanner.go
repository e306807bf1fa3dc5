package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/huin/goupnp"
	"github.com/huin/goupnp/ssdp"
	"github.com/muurk/upnpc/internal/logging"
	"go.uber.org/zap"
)

const (
	// DefaultScanTimeout is the default discovery window
	DefaultScanTimeout = 3 * time.Second

	// DefaultNumSends is how many copies of each M-SEARCH are sent per round
	DefaultNumSends = 2

	// searchRoundMX is the MX value of each search round in seconds
	searchRoundMX = 1

	// searchRound is the length of one round: MX plus the grace period
	// goupnp waits for late responses
	searchRound = searchRoundMX*time.Second + 100*time.Millisecond
)

// Scanner discovers devices by sending SSDP M-SEARCH requests
type Scanner struct {
	// KeepGoing skips devices whose description cannot be fetched instead
	// of failing the stream
	KeepGoing bool

	// MaxConcurrentFetches limits description requests in flight
	MaxConcurrentFetches int

	// NumSends is the number of M-SEARCH copies sent per round
	NumSends int

	round     time.Duration
	newClient func() (ssdp.HTTPUClient, func(), error)
	fetch     fetchFunc
}

// NewScanner creates a new SSDP scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		MaxConcurrentFetches: DefaultMaxConcurrentFetches,
		NumSends:             DefaultNumSends,
		round:                searchRound,
		newClient:            openMulticastClient,
		fetch:                goupnp.DeviceByURLCtx,
	}
}

// Discover starts an active search for target and returns a stream of
// devices in the order their descriptions arrive. Searching stops when
// timeout elapses; descriptions already requested are still delivered.
func (s *Scanner) Discover(ctx context.Context, target SearchTarget, timeout time.Duration) (*Stream, error) {
	if timeout < time.Second {
		return nil, ErrInvalidDuration
	}

	client, closeClient, err := s.newClient()
	if err != nil {
		return nil, newNetworkError(err)
	}

	logging.LogSearch("search", target.String(), timeout)

	ctx, cancel := context.WithCancel(ctx)
	c := newCollector(ctx, s.fetch, s.KeepGoing, s.MaxConcurrentFetches)

	go func() {
		defer cancel()
		s.search(c, client, target, time.Now().Add(timeout))
		closeClient()
		c.finish()
	}()

	return NewStream(c.out, cancel), nil
}

// search runs whole-second search rounds until the deadline so devices
// that answer early are yielded early
func (s *Scanner) search(c *collector, client ssdp.HTTPUClient, target SearchTarget, deadline time.Time) {
	searchCtx, cancel := context.WithDeadline(c.ctx, deadline)
	defer cancel()

	numSends := s.NumSends
	if numSends < 1 {
		numSends = 1
	}

	for round := 1; searchCtx.Err() == nil; round++ {
		start := time.Now()

		responses, err := ssdp.SSDPRawSearchCtx(searchCtx, client, target.String(), searchRoundMX, numSends)
		if err != nil {
			if c.ctx.Err() == nil {
				c.send(Result{Err: newNetworkError(fmt.Errorf("search round %d failed: %w", round, err))})
			}
			return
		}

		added := 0
		for _, resp := range responses {
			loc, err := resp.Location()
			if err != nil {
				continue
			}
			if c.add(loc, resp.Header.Get("USN")) {
				added++
			}
		}
		logging.Debug("Search round complete",
			zap.Int("round", round),
			zap.Int("responses", len(responses)),
			zap.Int("new", added),
		)

		// Pace rounds when the client returns before the round is over
		if wait := time.Until(start.Add(s.round)); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-searchCtx.Done():
				timer.Stop()
			}
		}
	}
}

