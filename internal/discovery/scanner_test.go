package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/huin/goupnp"
	"github.com/huin/goupnp/ssdp"
)

// fakeHTTPU answers each search round with the next canned batch of responses
type fakeHTTPU struct {
	mu      sync.Mutex
	rounds  [][]*http.Response
	err     error
	calls   int
	targets []string
	mx      []string
}

func (f *fakeHTTPU) Do(req *http.Request, timeout time.Duration, numSends int) ([]*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// goupnp sets these headers with their exact case
	f.targets = append(f.targets, req.Header["ST"][0])
	f.mx = append(f.mx, req.Header["MX"][0])

	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.rounds) {
		f.calls++
		return nil, nil
	}
	batch := f.rounds[f.calls]
	f.calls++
	return batch, nil
}

func ssdpResponse(location, usn, st string) *http.Response {
	h := http.Header{}
	h.Set("Location", location)
	h.Set("USN", usn)
	h.Set("ST", st)
	return &http.Response{StatusCode: 200, Status: "200 OK", Header: h}
}

// fakeFetcher serves descriptions by location
type fakeFetcher struct {
	mu      sync.Mutex
	devices map[string]goupnp.Device
	errs    map[string]error
	delays  map[string]time.Duration
	fetched []string
}

func (f *fakeFetcher) fetch(ctx context.Context, loc *url.URL) (*goupnp.RootDevice, error) {
	key := loc.String()

	f.mu.Lock()
	f.fetched = append(f.fetched, key)
	delay := f.delays[key]
	err := f.errs[key]
	dev, ok := f.devices[key]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no description at %s", key)
	}
	return &goupnp.RootDevice{Device: dev}, nil
}

func (f *fakeFetcher) fetchedLocations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.fetched...)
	sort.Strings(out)
	return out
}

func newTestScanner(client ssdp.HTTPUClient, fetcher *fakeFetcher, closed *atomic.Bool) *Scanner {
	s := NewScanner()
	s.round = 10 * time.Millisecond
	s.newClient = func() (ssdp.HTTPUClient, func(), error) {
		return client, func() { closed.Store(true) }, nil
	}
	s.fetch = fetcher.fetch
	return s
}

func names(devices []*Device) []string {
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.FriendlyName)
	}
	return out
}

const (
	locA = "http://10.0.0.5:1400/desc.xml"
	locB = "http://10.0.0.6:49152/rootDesc.xml"
	locC = "http://10.0.0.7:80/description.xml"
)

func threeDevices() map[string]goupnp.Device {
	return map[string]goupnp.Device{
		locA: {FriendlyName: "Speaker", UDN: "uuid:a"},
		locB: {FriendlyName: "Router", UDN: "uuid:b"},
		locC: {FriendlyName: "TV", UDN: "uuid:c"},
	}
}

func TestScanner_Discover_DeduplicatesAcrossRounds(t *testing.T) {
	client := &fakeHTTPU{rounds: [][]*http.Response{
		{
			ssdpResponse(locA, "uuid:a::upnp:rootdevice", "upnp:rootdevice"),
			ssdpResponse(locB, "uuid:b::upnp:rootdevice", "upnp:rootdevice"),
		},
		{
			ssdpResponse(locA, "uuid:a::upnp:rootdevice", "upnp:rootdevice"),
			ssdpResponse(locA, "uuid:a::urn:schemas-upnp-org:device:ZonePlayer:1", "urn:schemas-upnp-org:device:ZonePlayer:1"),
			ssdpResponse(locC, "uuid:c::upnp:rootdevice", "upnp:rootdevice"),
		},
	}}
	fetcher := &fakeFetcher{devices: threeDevices()}
	var closed atomic.Bool

	stream, err := newTestScanner(client, fetcher, &closed).Discover(context.Background(), AllDevices, time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	defer stream.Close()

	devices, err := collect(stream)
	if err != nil {
		t.Fatalf("collect() error = %v", err)
	}

	got := names(devices)
	sort.Strings(got)
	if diff := cmp.Diff([]string{"Router", "Speaker", "TV"}, got); diff != "" {
		t.Errorf("devices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{locA, locB, locC}, fetcher.fetchedLocations()); diff != "" {
		t.Errorf("each location should be fetched once (-want +got):\n%s", diff)
	}
	if !closed.Load() {
		t.Error("client should be closed once the stream ends")
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	if client.calls < 2 {
		t.Errorf("expected several search rounds, got %d", client.calls)
	}
	for i := range client.targets {
		if client.targets[i] != "ssdp:all" || client.mx[i] != "1" {
			t.Errorf("round %d sent ST=%q MX=%q, want ST=ssdp:all MX=1", i, client.targets[i], client.mx[i])
		}
	}
}

func TestScanner_Discover_ArrivalOrder(t *testing.T) {
	client := &fakeHTTPU{rounds: [][]*http.Response{{
		ssdpResponse(locA, "uuid:a", "upnp:rootdevice"),
		ssdpResponse(locB, "uuid:b", "upnp:rootdevice"),
	}}}
	fetcher := &fakeFetcher{
		devices: threeDevices(),
		delays:  map[string]time.Duration{locA: 300 * time.Millisecond},
	}
	var closed atomic.Bool

	stream, err := newTestScanner(client, fetcher, &closed).Discover(context.Background(), AllDevices, time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	defer stream.Close()

	devices, err := collect(stream)
	if err != nil {
		t.Fatalf("collect() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Router", "Speaker"}, names(devices)); diff != "" {
		t.Errorf("devices should arrive in fetch completion order (-want +got):\n%s", diff)
	}
}

func TestScanner_Discover_YieldsBeforeTimeout(t *testing.T) {
	client := &fakeHTTPU{rounds: [][]*http.Response{{
		ssdpResponse(locA, "uuid:a", "upnp:rootdevice"),
	}}}
	fetcher := &fakeFetcher{devices: threeDevices()}
	var closed atomic.Bool

	start := time.Now()
	stream, err := newTestScanner(client, fetcher, &closed).Discover(context.Background(), AllDevices, 5*time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	d, err := stream.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if d.FriendlyName != "Speaker" {
		t.Errorf("Next() = %v, want Speaker", d)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("first device took %v, should not wait for the full window", elapsed)
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !closed.Load() {
		t.Error("client should be closed after Close")
	}
}

func TestScanner_Discover_DescriptionErrorIsFatal(t *testing.T) {
	client := &fakeHTTPU{rounds: [][]*http.Response{{
		ssdpResponse(locB, "uuid:b::upnp:rootdevice", "upnp:rootdevice"),
	}}}
	fetcher := &fakeFetcher{
		devices: threeDevices(),
		errs:    map[string]error{locB: errors.New("connection refused")},
	}
	var closed atomic.Bool

	stream, err := newTestScanner(client, fetcher, &closed).Discover(context.Background(), AllDevices, time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	defer stream.Close()

	_, err = collect(stream)
	if !IsDescriptionError(err) {
		t.Fatalf("collect() error = %v, want description error", err)
	}

	var discErr *Error
	if !errors.As(err, &discErr) {
		t.Fatalf("error should be *Error, got %T", err)
	}
	if discErr.Location != locB || discErr.USN != "uuid:b::upnp:rootdevice" {
		t.Errorf("Error = %+v", discErr)
	}
}

func TestScanner_Discover_KeepGoing(t *testing.T) {
	client := &fakeHTTPU{rounds: [][]*http.Response{{
		ssdpResponse(locA, "uuid:a", "upnp:rootdevice"),
		ssdpResponse(locB, "uuid:b", "upnp:rootdevice"),
		ssdpResponse(locC, "uuid:c", "upnp:rootdevice"),
	}}}
	fetcher := &fakeFetcher{
		devices: threeDevices(),
		errs:    map[string]error{locB: errors.New("timeout")},
	}
	var closed atomic.Bool

	s := newTestScanner(client, fetcher, &closed)
	s.KeepGoing = true

	stream, err := s.Discover(context.Background(), AllDevices, time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	defer stream.Close()

	devices, err := collect(stream)
	if err != nil {
		t.Fatalf("collect() error = %v", err)
	}
	got := names(devices)
	sort.Strings(got)
	if diff := cmp.Diff([]string{"Speaker", "TV"}, got); diff != "" {
		t.Errorf("devices mismatch (-want +got):\n%s", diff)
	}
}

func TestScanner_Discover_ExactTargetFiltersResponses(t *testing.T) {
	target, err := ParseSearchTarget("urn:schemas-upnp-org:device:MediaRenderer:1")
	if err != nil {
		t.Fatal(err)
	}
	client := &fakeHTTPU{rounds: [][]*http.Response{{
		ssdpResponse(locA, "uuid:a::urn:schemas-upnp-org:device:MediaRenderer:1", "urn:schemas-upnp-org:device:MediaRenderer:1"),
		ssdpResponse(locB, "uuid:b::upnp:rootdevice", "upnp:rootdevice"),
	}}}
	fetcher := &fakeFetcher{devices: threeDevices()}
	var closed atomic.Bool

	stream, err := newTestScanner(client, fetcher, &closed).Discover(context.Background(), target, time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	defer stream.Close()

	devices, err := collect(stream)
	if err != nil {
		t.Fatalf("collect() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Speaker"}, names(devices)); diff != "" {
		t.Errorf("devices mismatch (-want +got):\n%s", diff)
	}
	if client.targets[0] != target.String() {
		t.Errorf("ST = %q, want %q", client.targets[0], target.String())
	}
}

func TestScanner_Discover_SearchError(t *testing.T) {
	client := &fakeHTTPU{err: errors.New("network is unreachable")}
	fetcher := &fakeFetcher{}
	var closed atomic.Bool

	stream, err := newTestScanner(client, fetcher, &closed).Discover(context.Background(), AllDevices, time.Second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	defer stream.Close()

	if _, err := collect(stream); !IsNetworkError(err) {
		t.Errorf("collect() error = %v, want network error", err)
	}
}

func TestScanner_Discover_ClientError(t *testing.T) {
	s := NewScanner()
	s.newClient = func() (ssdp.HTTPUClient, func(), error) {
		return nil, nil, errors.New("no sockets")
	}

	_, err := s.Discover(context.Background(), AllDevices, time.Second)
	if !IsNetworkError(err) {
		t.Errorf("Discover() error = %v, want network error", err)
	}
}

func TestScanner_Discover_InvalidDuration(t *testing.T) {
	_, err := NewScanner().Discover(context.Background(), AllDevices, 500*time.Millisecond)
	if !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("Discover() error = %v, want ErrInvalidDuration", err)
	}
}

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeDescription, "Description Error"},
		{ErrorType(99), "ErrorType(99)"},
	}
	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", int(tt.et), got, tt.want)
		}
	}
}
