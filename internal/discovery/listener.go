package discovery

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/huin/goupnp"
	"github.com/koron/go-ssdp"
	"github.com/muurk/upnpc/internal/logging"
	"go.uber.org/zap"
)

// monitor is the part of ssdp.Monitor the listener drives
type monitor interface {
	Start() error
	Close() error
}

// Listener discovers devices passively from ssdp:alive announcements
type Listener struct {
	// KeepGoing skips devices whose description cannot be fetched
	KeepGoing bool

	// MaxConcurrentFetches limits description requests in flight
	MaxConcurrentFetches int

	newMonitor func(alive ssdp.AliveHandler, bye ssdp.ByeHandler) monitor
	fetch      fetchFunc
}

// NewListener creates a listener bound to the SSDP multicast group
func NewListener() *Listener {
	return &Listener{
		MaxConcurrentFetches: DefaultMaxConcurrentFetches,
		newMonitor:           newSSDPMonitor,
		fetch:                goupnp.DeviceByURLCtx,
	}
}

func newSSDPMonitor(alive ssdp.AliveHandler, bye ssdp.ByeHandler) monitor {
	ssdp.Logger = logging.StdLog("ssdp")
	return &ssdp.Monitor{Alive: alive, Bye: bye}
}

// Discover listens for announcements matching target until timeout and
// streams the announced devices. Unlike Scanner it sends nothing; devices
// appear only when they announce themselves.
func (l *Listener) Discover(ctx context.Context, target SearchTarget, timeout time.Duration) (*Stream, error) {
	if timeout < time.Second {
		return nil, ErrInvalidDuration
	}

	ctx, cancel := context.WithCancel(ctx)
	c := newCollector(ctx, l.fetch, l.KeepGoing, l.MaxConcurrentFetches)

	alive := func(m *ssdp.AliveMessage) {
		if !target.Matches(m.Type) {
			return
		}
		loc, err := url.Parse(m.Location)
		if err != nil || !loc.IsAbs() {
			logging.Debug("Ignoring announcement without usable location",
				zap.String("usn", m.USN),
				zap.String("location", m.Location),
			)
			return
		}
		c.add(loc, m.USN)
	}
	bye := func(m *ssdp.ByeMessage) {
		logging.Debug("Device left",
			zap.String("usn", m.USN),
			zap.String("nt", m.Type),
		)
	}

	mon := l.newMonitor(alive, bye)
	if err := mon.Start(); err != nil {
		cancel()
		return nil, newNetworkError(fmt.Errorf("failed to start SSDP monitor: %w", err))
	}

	logging.LogSearch("listen", target.String(), timeout)

	go func() {
		defer cancel()
		timer := time.NewTimer(timeout)
		select {
		case <-timer.C:
		case <-c.done():
			timer.Stop()
		}
		if err := mon.Close(); err != nil {
			logging.Debug("SSDP monitor close failed", zap.Error(err))
		}
		// Handlers still running after Close are rejected by the sealed collector
		c.finish()
	}()

	return NewStream(c.out, cancel), nil
}
