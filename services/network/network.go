// Package network brings the WiFi link up and resolves the backend once at
// boot. There is no reconnection: the link is assumed to stay up.
package network

import (
	"context"
	"log/slog"
	"net/netip"
	"time"

	"flownix-node/errcode"
)

// Link is a station-mode network interface.
type Link interface {
	// Begin starts association. It may return before the link is up.
	Begin(ssid, passphrase string) error
	Connected() bool
	LocalAddr() (netip.Addr, error)
	Resolve(host string) (netip.Addr, error)
}

// State is what the rest of the firmware needs to know about the link.
type State struct {
	Local    netip.Addr
	Backend  netip.Addr
	Fallback bool // Backend is the configured literal, DNS failed
}

// Associate starts association and polls every poll until the link is up.
// It never gives up; ctx cancellation exists for tools and tests only.
func Associate(ctx context.Context, link Link, ssid, passphrase string, poll time.Duration, sleep func(time.Duration), log *slog.Logger) error {
	if poll <= 0 {
		poll = 300 * time.Millisecond
	}
	if err := link.Begin(ssid, passphrase); err != nil {
		// Some links fail the first begin while the radio boots; keep polling.
		log.Warn("[WiFi] begin failed, polling anyway", "ssid", ssid, "err", err)
	}
	for polls := 0; !link.Connected(); polls++ {
		if err := ctx.Err(); err != nil {
			return errcode.New(errcode.LinkDown, "associate", ssid, err)
		}
		if polls%10 == 0 {
			log.Debug("[WiFi] waiting", "ssid", ssid, "polls", polls)
		}
		sleep(poll)
	}
	return nil
}

// ResolveBackend looks host up once. On failure the fallback literal is used
// for the rest of the session.
func ResolveBackend(link Link, host string, fallback netip.Addr, log *slog.Logger) (netip.Addr, bool) {
	addr, err := link.Resolve(host)
	if err != nil || !addr.IsValid() {
		log.Warn("[DNS] FAIL", "host", host, "code", errcode.ResolveFailed, "err", err)
		addr = fallback
		log.Info("[DNS] Using IP", "addr", addr.String(), "fallback", true)
		return addr, true
	}
	log.Info("[DNS] Using IP", "addr", addr.String(), "fallback", false)
	return addr, false
}

// Bringup associates and resolves, returning the session state.
func Bringup(ctx context.Context, link Link, ssid, passphrase, host string, fallback netip.Addr, poll time.Duration, sleep func(time.Duration), log *slog.Logger) (State, error) {
	var st State
	if err := Associate(ctx, link, ssid, passphrase, poll, sleep, log); err != nil {
		return st, err
	}
	st.Local, _ = link.LocalAddr()
	st.Backend, st.Fallback = ResolveBackend(link, host, fallback, log)
	return st, nil
}
