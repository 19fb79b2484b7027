//go:build rp2040 || rp2350

package network

import (
	"net/netip"

	"tinygo.org/x/drivers/netdev"
	"tinygo.org/x/drivers/netlink"
	"tinygo.org/x/drivers/netlink/probe"

	"flownix-node/errcode"
)

// NetLink drives the board's WiFi chip through the TinyGo netlink/netdev
// interfaces. probe selects the driver for the build target (cyw43439 on the
// Pico W) and installs it as the net package's device.
type NetLink struct {
	link netlink.Netlinker
	dev  netdev.Netdever
}

func NewNetLink() *NetLink {
	link, dev := probe.Probe()
	return &NetLink{link: link, dev: dev}
}

// Begin connects in station mode. The driver blocks until associated or its
// own timeout expires; a timeout is not fatal since Connected keeps polling.
func (n *NetLink) Begin(ssid, passphrase string) error {
	err := n.link.NetConnect(&netlink.ConnectParams{
		Ssid:       ssid,
		Passphrase: passphrase,
	})
	if err != nil {
		return errcode.New(errcode.ConnectFailed, "wifi_begin", ssid, err)
	}
	return nil
}

func (n *NetLink) Connected() bool {
	a, err := n.dev.Addr()
	return err == nil && a.IsValid() && !a.IsUnspecified()
}

func (n *NetLink) LocalAddr() (netip.Addr, error) {
	a, err := n.dev.Addr()
	if err != nil {
		return netip.Addr{}, errcode.New(errcode.LinkDown, "local_addr", "", err)
	}
	return a, nil
}

func (n *NetLink) Resolve(host string) (netip.Addr, error) {
	a, err := n.dev.GetHostByName(host)
	if err != nil {
		return netip.Addr{}, errcode.New(errcode.ResolveFailed, "resolve", host, err)
	}
	return a, nil
}
