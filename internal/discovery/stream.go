package discovery

import (
	"context"
	"io"
	"sync"
)

// Result is one item produced by a discovery stream. Exactly one of Device
// and Err is set.
type Result struct {
	Device *Device
	Err    error
}

// Stream delivers devices as their descriptions arrive. It ends with io.EOF
// once the discovery window has closed and all pending fetches are done.
type Stream struct {
	results <-chan Result
	stop    func()
	once    sync.Once
}

// NewStream wraps a result channel. stop is called once by Close and must
// cause the producer to close the channel. A nil stop makes Close a no-op.
func NewStream(results <-chan Result, stop func()) *Stream {
	return &Stream{results: results, stop: stop}
}

// Next blocks until the next device is available. It returns io.EOF when
// the stream is exhausted and ctx.Err() if ctx ends first.
func (s *Stream) Next(ctx context.Context) (*Device, error) {
	select {
	case r, ok := <-s.results:
		if !ok {
			return nil, io.EOF
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Device, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops discovery and releases its sockets. Results not yet read are
// dropped. Close is safe to call more than once.
func (s *Stream) Close() error {
	s.once.Do(func() {
		if s.stop == nil {
			return
		}
		s.stop()
		// Drain so producers blocked on send can exit
		for range s.results {
		}
	})
	return nil
}
