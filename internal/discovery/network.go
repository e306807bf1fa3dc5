package discovery

import (
	"errors"
	"fmt"
	"net"

	"github.com/huin/goupnp/httpu"
	"github.com/huin/goupnp/ssdp"
	"github.com/muurk/upnpc/internal/logging"
	"go.uber.org/zap"
)

// openMulticastClient opens one HTTPU socket per multicast-capable IPv4
// interface so that M-SEARCH requests leave through every LAN. The returned
// function closes all sockets.
func openMulticastClient() (ssdp.HTTPUClient, func(), error) {
	addrs, err := multicastAddrs()
	if err != nil {
		return nil, nil, err
	}

	if len(addrs) == 0 {
		// No usable interface found, let the kernel pick one
		client, err := httpu.NewHTTPUClient()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SSDP socket: %w", err)
		}
		return client, func() { _ = client.Close() }, nil
	}

	clients := make([]*httpu.HTTPUClient, 0, len(addrs))
	delegates := make([]httpu.ClientInterface, 0, len(addrs))
	closeAll := func() {
		for _, c := range clients {
			_ = c.Close()
		}
	}

	for _, addr := range addrs {
		client, err := httpu.NewHTTPUClientAddr(addr)
		if err != nil {
			logging.Debug("Skipping interface address",
				zap.String("address", addr),
				zap.Error(err),
			)
			continue
		}
		clients = append(clients, client)
		delegates = append(delegates, client)
	}

	if len(clients) == 0 {
		return nil, nil, errors.New("failed to open SSDP socket on any interface")
	}

	logging.Debug("SSDP sockets opened", zap.Strings("addresses", addrs))
	return httpu.NewMultiClient(delegates), closeAll, nil
}

// multicastAddrs lists the IPv4 addresses of interfaces that are up,
// multicast capable and not loopback
func multicastAddrs() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}

	var addrs []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 ||
			iface.Flags&net.FlagMulticast == 0 ||
			iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		ifaceAddrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range ifaceAddrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok || ipnet.IP.To4() == nil {
				continue
			}
			addrs = append(addrs, ipnet.IP.String())
		}
	}
	return addrs, nil
}
