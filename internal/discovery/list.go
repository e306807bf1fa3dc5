package discovery

import (
	"context"
	"time"
)

// DeviceList is a source over devices that are already known, such as the
// ones remembered in the configuration file. Discover yields the devices
// matching target in list order without touching the network.
type DeviceList []*Device

// Discover streams the matching devices. The timeout is ignored.
func (l DeviceList) Discover(ctx context.Context, target SearchTarget, _ time.Duration) (*Stream, error) {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Result)

	go func() {
		defer cancel()
		defer close(out)
		for _, d := range l {
			if !target.MatchesDevice(d) {
				continue
			}
			select {
			case out <- Result{Device: d}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return NewStream(out, cancel), nil
}
