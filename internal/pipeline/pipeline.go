package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/muurk/upnpc/internal/discovery"
	"github.com/muurk/upnpc/internal/format"
	"github.com/muurk/upnpc/internal/logging"
	"go.uber.org/zap"
)

// Source produces devices for a search target within a time window
type Source interface {
	Discover(ctx context.Context, target discovery.SearchTarget, timeout time.Duration) (*discovery.Stream, error)
}

// State is the phase a run is in
type State int

const (
	// StateQuerying translates options into a discovery request
	StateQuerying State = iota
	// StateStreaming waits for the next device
	StateStreaming
	// StateRendering renders and writes one device line
	StateRendering
	// StateDone means the stream ended normally
	StateDone
	// StateAborted means a discovery, render or write error stopped the run
	StateAborted
)

// String returns the lower-case name of the state
func (s State) String() string {
	switch s {
	case StateQuerying:
		return "querying"
	case StateStreaming:
		return "streaming"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Summary describes a finished run
type Summary struct {
	Printed int
	Elapsed time.Duration
	State   State
}

// Pipeline renders every device from Source through Template into Out
type Pipeline struct {
	Source   Source
	Template *format.Template
	Out      io.Writer

	// OnDevice, if set, is called after a device's line has been written
	OnDevice func(*discovery.Device)

	state State
}

// State returns the phase the pipeline is currently in
func (p *Pipeline) State() State {
	return p.state
}

func (p *Pipeline) enter(s State) {
	p.state = s
	logging.Debug("Pipeline state", zap.Stringer("state", s))
}

// Run discovers devices matching target for timeout and writes one rendered
// line per device. It returns the first discovery, render or write error;
// a render error wraps a *format.Error.
func (p *Pipeline) Run(ctx context.Context, target discovery.SearchTarget, timeout time.Duration) (Summary, error) {
	start := time.Now()
	summary := Summary{}

	finish := func(s State, err error) (Summary, error) {
		p.enter(s)
		summary.State = s
		summary.Elapsed = time.Since(start)
		return summary, err
	}

	p.enter(StateQuerying)
	stream, err := p.Source.Discover(ctx, target, timeout)
	if err != nil {
		return finish(StateAborted, fmt.Errorf("failed to start discovery: %w", err))
	}
	defer stream.Close()

	for {
		p.enter(StateStreaming)
		device, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			return finish(StateDone, nil)
		}
		if err != nil {
			return finish(StateAborted, err)
		}

		p.enter(StateRendering)
		line, err := p.Template.Execute(device.NamedArgs())
		if err != nil {
			return finish(StateAborted, fmt.Errorf("failed to render %s: %w", device, err))
		}
		if _, err := io.WriteString(p.Out, line+"\n"); err != nil {
			return finish(StateAborted, fmt.Errorf("failed to write output: %w", err))
		}
		summary.Printed++

		if p.OnDevice != nil {
			p.OnDevice(device)
		}
	}
}
