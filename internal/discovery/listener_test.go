package discovery

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/koron/go-ssdp"
)

type fakeMonitor struct {
	alive    ssdp.AliveHandler
	bye      ssdp.ByeHandler
	startErr error
	started  atomic.Bool
	closed   atomic.Bool
}

func (m *fakeMonitor) Start() error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started.Store(true)
	return nil
}

func (m *fakeMonitor) Close() error {
	m.closed.Store(true)
	return nil
}

func newTestListener(mon *fakeMonitor, fetcher *fakeFetcher) *Listener {
	l := NewListener()
	l.newMonitor = func(alive ssdp.AliveHandler, bye ssdp.ByeHandler) monitor {
		mon.alive = alive
		mon.bye = bye
		return mon
	}
	l.fetch = fetcher.fetch
	return l
}

func TestListener_Discover(t *testing.T) {
	mon := &fakeMonitor{}
	fetcher := &fakeFetcher{devices: threeDevices()}

	stream, err := newTestListener(mon, fetcher).Discover(context.Background(), AllDevices, time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	defer stream.Close()

	if !mon.started.Load() {
		t.Fatal("monitor should be started")
	}

	mon.alive(&ssdp.AliveMessage{Type: "upnp:rootdevice", USN: "uuid:a::upnp:rootdevice", Location: locA})
	mon.alive(&ssdp.AliveMessage{Type: "uuid:a", USN: "uuid:a", Location: locA})
	mon.alive(&ssdp.AliveMessage{Type: "upnp:rootdevice", USN: "uuid:c::upnp:rootdevice", Location: locC})
	mon.alive(&ssdp.AliveMessage{Type: "upnp:rootdevice", USN: "uuid:x", Location: "/relative.xml"})
	mon.bye(&ssdp.ByeMessage{Type: "upnp:rootdevice", USN: "uuid:b::upnp:rootdevice"})

	devices, err := collect(stream)
	if err != nil {
		t.Fatalf("collect() error = %v", err)
	}

	got := names(devices)
	sort.Strings(got)
	if diff := cmp.Diff([]string{"Speaker", "TV"}, got); diff != "" {
		t.Errorf("devices mismatch (-want +got):\n%s", diff)
	}
	if !mon.closed.Load() {
		t.Error("monitor should be closed when the window ends")
	}

	// Late announcements after the window are ignored
	mon.alive(&ssdp.AliveMessage{Type: "upnp:rootdevice", USN: "uuid:b", Location: locB})
	for _, loc := range fetcher.fetchedLocations() {
		if loc == locB {
			t.Error("announcement after the window should not be fetched")
		}
	}
}

func TestListener_Discover_FiltersByTarget(t *testing.T) {
	target, err := ParseSearchTarget("urn:schemas-upnp-org:device:InternetGatewayDevice:1")
	if err != nil {
		t.Fatal(err)
	}
	mon := &fakeMonitor{}
	fetcher := &fakeFetcher{devices: threeDevices()}

	stream, err := newTestListener(mon, fetcher).Discover(context.Background(), target, time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	defer stream.Close()

	mon.alive(&ssdp.AliveMessage{Type: "upnp:rootdevice", USN: "uuid:a", Location: locA})
	mon.alive(&ssdp.AliveMessage{
		Type:     "urn:schemas-upnp-org:device:InternetGatewayDevice:1",
		USN:      "uuid:b::urn:schemas-upnp-org:device:InternetGatewayDevice:1",
		Location: locB,
	})

	devices, err := collect(stream)
	if err != nil {
		t.Fatalf("collect() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Router"}, names(devices)); diff != "" {
		t.Errorf("devices mismatch (-want +got):\n%s", diff)
	}
}

func TestListener_Discover_CloseEarly(t *testing.T) {
	mon := &fakeMonitor{}
	fetcher := &fakeFetcher{devices: threeDevices()}

	stream, err := newTestListener(mon, fetcher).Discover(context.Background(), AllDevices, 10*time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	mon.alive(&ssdp.AliveMessage{Type: "upnp:rootdevice", USN: "uuid:a", Location: locA})
	if _, err := stream.Next(context.Background()); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		_ = stream.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() did not return")
	}
	if !mon.closed.Load() {
		t.Error("monitor should be closed after Close")
	}
}

func TestListener_Discover_StartError(t *testing.T) {
	mon := &fakeMonitor{startErr: errors.New("address already in use")}

	_, err := newTestListener(mon, &fakeFetcher{}).Discover(context.Background(), AllDevices, time.Second)
	if !IsNetworkError(err) {
		t.Errorf("Discover() error = %v, want network error", err)
	}
}

func TestListener_Discover_InvalidDuration(t *testing.T) {
	_, err := NewListener().Discover(context.Background(), AllDevices, 0)
	if !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("Discover() error = %v, want ErrInvalidDuration", err)
	}
}
