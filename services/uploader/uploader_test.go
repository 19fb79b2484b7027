package uploader

import (
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"sync"
	"testing"
	"time"

	"flownix-node/errcode"
	"flownix-node/types"
)

const (
	testHost = "flownix-backend.onrender.com"
	tempID   = "008ee850-a61f-4aee-aa20-060897b6d6a4"
)

type seen struct {
	mu       sync.Mutex
	method   string
	path     string
	host     string
	ctype    string
	close    bool
	body     string
	requests int
}

func (s *seen) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func readingFor(v float32) types.Reading { return types.Reading{SensorID: tempID, Value: v} }

func backend(t *testing.T, status int) (*httptest.Server, *seen) {
	t.Helper()
	s := &seen{}
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.method, s.path, s.host = r.Method, r.URL.Path, r.Host
		s.ctype = r.Header.Get("Content-Type")
		s.close = r.Close
		s.body = string(b)
		s.requests++
		s.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv, s
}

// sniBackend is a TLS backend that records the server name of each handshake.
func sniBackend(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var mu sync.Mutex
	var names []string
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.TLS = &tls.Config{
		GetConfigForClient: func(h *tls.ClientHelloInfo) (*tls.Config, error) {
			mu.Lock()
			names = append(names, h.ServerName)
			mu.Unlock()
			return nil, nil
		},
	}
	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), names...)
	}
}

func addrOf(t *testing.T, srv *httptest.Server) netip.AddrPort {
	t.Helper()
	ap, err := netip.ParseAddrPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("parse listener addr: %v", err)
	}
	return ap
}

type sleeps struct{ got []time.Duration }

func (s *sleeps) sleep(d time.Duration) { s.got = append(s.got, d) }

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newClient(sl *sleeps) *Client {
	return New(Config{Host: testHost, Timeout: 5 * time.Second}, quiet(), sl.sleep)
}

func TestPostValue_WireFormat(t *testing.T) {
	srv, s := backend(t, http.StatusCreated)
	sl := &sleeps{}
	c := newClient(sl)
	c.SetTarget(addrOf(t, srv))

	if !c.PostValue(context.Background(), tempID, 23.5) {
		t.Fatal("PostValue = false, want true")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.method != http.MethodPost || s.path != "/api/SensorReading" {
		t.Fatalf("request = %s %s", s.method, s.path)
	}
	if s.host != testHost {
		t.Fatalf("Host = %q, want %q", s.host, testHost)
	}
	if s.ctype != "application/json" {
		t.Fatalf("Content-Type = %q", s.ctype)
	}
	if !s.close {
		t.Fatal("expected Connection: close")
	}
	if want := `{"sensorId":"008ee850-a61f-4aee-aa20-060897b6d6a4","value":23.5}`; s.body != want {
		t.Fatalf("body = %s, want %s", s.body, want)
	}
	if len(sl.got) != 0 {
		t.Fatalf("unexpected sleeps %v", sl.got)
	}
}

func TestPostValue_HandshakeCarriesNoServerName(t *testing.T) {
	srv, names := sniBackend(t)
	c := newClient(&sleeps{})
	c.SetTarget(addrOf(t, srv))

	if !c.PostValue(context.Background(), tempID, 1) {
		t.Fatal("PostValue = false, want true")
	}
	got := names()
	if len(got) != 1 || got[0] != "" {
		t.Fatalf("server names = %q, want one empty", got)
	}
}

func TestWarmup_HandshakeNamesHost(t *testing.T) {
	srv, names := sniBackend(t)
	target := srv.Listener.Addr().String()
	c := New(Config{
		Host:    testHost,
		Timeout: 5 * time.Second,
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, target)
		},
	}, quiet(), nil)

	c.Warmup(context.Background())
	if got := names(); len(got) != 1 || got[0] != testHost {
		t.Fatalf("server names = %q, want [%s]", got, testHost)
	}
}

func TestPost_StatusDecidesSuccess(t *testing.T) {
	for _, c := range []struct {
		status int
		ok     bool
	}{
		{200, true}, {204, true}, {299, true},
		{301, false}, {400, false}, {404, false}, {500, false}, {503, false},
	} {
		srv, s := backend(t, c.status)
		sl := &sleeps{}
		cl := newClient(sl)
		cl.SetTarget(addrOf(t, srv))

		res := cl.Post(context.Background(), readingFor(1.0))
		if res.OK != c.ok || res.Status != c.status {
			t.Fatalf("status %d: OK=%v Status=%d", c.status, res.OK, res.Status)
		}
		// A received status ends the call; no retry.
		if res.Attempts != 1 || s.count() != 1 || len(sl.got) != 0 {
			t.Fatalf("status %d: attempts=%d requests=%d sleeps=%v", c.status, res.Attempts, s.count(), sl.got)
		}
		if !c.ok && errcode.Of(res.Err) != errcode.HTTPStatus {
			t.Fatalf("status %d: code = %q", c.status, errcode.Of(res.Err))
		}
	}
}

func TestPost_TransportErrorRetriesWithScaledBackoff(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ap, _ := netip.ParseAddrPort(ln.Addr().String())
	_ = ln.Close() // nothing listens any more

	sl := &sleeps{}
	c := newClient(sl)
	c.SetTarget(ap)

	res := c.Post(context.Background(), readingFor(2))
	if res.OK || res.Attempts != 2 || res.Status != 0 {
		t.Fatalf("res = %+v", res)
	}
	if code := errcode.Of(res.Err); code != errcode.RequestFailed && code != errcode.Timeout {
		t.Fatalf("code = %q", code)
	}
	if len(sl.got) != 1 || sl.got[0] != 2400*time.Millisecond {
		t.Fatalf("sleeps = %v, want [2.4s]", sl.got)
	}
}

func TestPost_BeginFailureWaitsFixed(t *testing.T) {
	sl := &sleeps{}
	c := newClient(sl) // no target: the request cannot be started

	res := c.Post(context.Background(), readingFor(3))
	if res.OK || res.Attempts != 2 {
		t.Fatalf("res = %+v", res)
	}
	if errcode.Of(res.Err) != errcode.ConnectFailed {
		t.Fatalf("code = %q", errcode.Of(res.Err))
	}
	want := []time.Duration{700 * time.Millisecond, 700 * time.Millisecond}
	if len(sl.got) != len(want) || sl.got[0] != want[0] || sl.got[1] != want[1] {
		t.Fatalf("sleeps = %v, want %v", sl.got, want)
	}
}

func TestPost_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sl := &sleeps{}
	c := newClient(sl)
	res := c.Post(ctx, readingFor(4))
	if res.Attempts != 1 || res.OK {
		t.Fatalf("res = %+v", res)
	}
}

func TestWarmup_UsesHostName(t *testing.T) {
	srv, s := backend(t, http.StatusOK)
	target := srv.Listener.Addr().String()
	var dialed string
	c := New(Config{
		Host:    testHost,
		Timeout: 5 * time.Second,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialed = addr
			var d net.Dialer
			return d.DialContext(ctx, network, target)
		},
	}, quiet(), nil)

	c.Warmup(context.Background())
	if dialed != testHost+":443" {
		t.Fatalf("dialed %q, want %s:443", dialed, testHost)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.method != http.MethodGet || s.path != "/" || s.host != testHost {
		t.Fatalf("warmup request = %s %s host=%s", s.method, s.path, s.host)
	}
}

func TestWarmup_FailureIsIgnored(t *testing.T) {
	c := New(Config{
		Host:    testHost,
		Timeout: time.Second,
		DialContext: func(context.Context, string, string) (net.Conn, error) {
			return nil, &net.OpError{Op: "dial", Err: io.ErrUnexpectedEOF}
		},
	}, quiet(), nil)
	c.Warmup(context.Background()) // must return without panicking
}

func TestURL(t *testing.T) {
	c := New(Config{Host: testHost}, quiet(), nil)
	c.SetTarget(netip.AddrPortFrom(netip.MustParseAddr("216.24.57.7"), 0))
	if got := c.Target().Addr().String(); got != "216.24.57.7" {
		t.Fatalf("Target = %s", got)
	}
	if got, want := c.URL(), "https://216.24.57.7/api/SensorReading"; got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
	c.SetTarget(netip.MustParseAddrPort("127.0.0.1:8443"))
	if got, want := c.URL(), "https://127.0.0.1:8443/api/SensorReading"; got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
}
