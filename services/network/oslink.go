//go:build !rp2040 && !rp2350

package network

import (
	"context"
	"net"
	"net/netip"
	"time"

	"flownix-node/errcode"
)

// OSLink uses the operating system's network stack, which is assumed to be
// associated already (host and Linux builds).
type OSLink struct {
	Resolver *net.Resolver // nil uses net.DefaultResolver
	Timeout  time.Duration // per lookup, default 5 s
}

func (l *OSLink) Begin(string, string) error { return nil }

func (l *OSLink) Connected() bool { return true }

// LocalAddr reports the first non-loopback IPv4 interface address.
func (l *OSLink) LocalAddr() (netip.Addr, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return netip.Addr{}, err
	}
	for _, a := range addrs {
		pfx, err := netip.ParsePrefix(a.String())
		if err != nil {
			continue
		}
		if ip := pfx.Addr(); ip.Is4() && !ip.IsLoopback() {
			return ip, nil
		}
	}
	return netip.Addr{}, errcode.New(errcode.LinkDown, "local_addr", "no IPv4 address", nil)
}

// Resolve returns the first IPv4 address for host.
func (l *OSLink) Resolve(host string) (netip.Addr, error) {
	r := l.Resolver
	if r == nil {
		r = net.DefaultResolver
	}
	to := l.Timeout
	if to <= 0 {
		to = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), to)
	defer cancel()
	ips, err := r.LookupNetIP(ctx, "ip4", host)
	if err != nil {
		return netip.Addr{}, errcode.New(errcode.ResolveFailed, "resolve", host, err)
	}
	if len(ips) == 0 {
		return netip.Addr{}, errcode.New(errcode.ResolveFailed, "resolve", host, nil)
	}
	return ips[0].Unmap(), nil
}
