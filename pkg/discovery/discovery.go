package discovery

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/enbility/zeroconf/v3"
)

// mDNS service constants.
const (
	// ServiceType is the service type MPD servers announce.
	ServiceType = "_mpd._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default MPD port.
	DefaultPort = 6600
)

// ErrNotFound is returned by Find when browsing ends without a result.
var ErrNotFound = errors.New("no server found")

// Server is one MPD server discovered on the local network.
type Server struct {
	// Instance is the announced service instance name.
	Instance string

	// Host is the announced hostname.
	Host string

	// Port is the announced port.
	Port uint16

	// Addresses are the resolved IP addresses, aggregated across
	// interfaces.
	Addresses []string
}

// Addr returns an address suitable for dialing, preferring a resolved
// IP over the announced hostname.
func (s *Server) Addr() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	return net.JoinHostPort(host, strconv.Itoa(int(s.Port)))
}

// Config configures browsing behavior.
type Config struct {
	// Interface specifies which network interface to browse on.
	// Empty string means all interfaces.
	Interface string
}

// Browse searches for MPD servers until the context is cancelled.
// Each server is emitted once; announcements seen on further interfaces
// only extend its address list. The returned channel is closed when
// browsing stops.
func Browse(ctx context.Context, cfg Config) (<-chan *Server, error) {
	out := make(chan *Server)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := browserOptions(cfg)

	// Process entries with aggregation
	go func() {
		defer close(out)

		// Track services by instance name, aggregating addresses
		services := make(map[string]*Server)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToServer(entry)
				if svc == nil {
					continue
				}

				existing, found := services[svc.Instance]
				if found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
				} else {
					services[svc.Instance] = svc
					select {
					case out <- svc:
					case <-ctx.Done():
						return
					}
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				// Drop the addresses that disappeared; forget the
				// service once none remain.
				if existing, found := services[entry.Instance]; found {
					existing.Addresses = removeAddresses(existing.Addresses, entry)
					if len(existing.Addresses) == 0 {
						delete(services, entry.Instance)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// Start browsing in background
	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// Find returns the first MPD server discovered, or ErrNotFound if
// browsing ends without one.
func Find(ctx context.Context, cfg Config) (*Server, error) {
	servers, err := Browse(ctx, cfg)
	if err != nil {
		return nil, err
	}

	select {
	case server, ok := <-servers:
		if !ok {
			return nil, ErrNotFound
		}
		return server, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func browserOptions(cfg Config) []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if cfg.Interface != "" {
		iface, err := net.InterfaceByName(cfg.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToServer converts an mDNS entry. Returns nil for entries without
// a usable port.
func entryToServer(entry *zeroconf.ServiceEntry) *Server {
	if entry.Port <= 0 || entry.Port > 65535 {
		return nil
	}

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &Server{
		Instance:  entry.Instance,
		Host:      entry.HostName,
		Port:      uint16(entry.Port),
		Addresses: addrs,
	}
}

func mergeAddresses(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range extra {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	toRemove := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		toRemove[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		toRemove[ip.String()] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}
