package probe

import (
	"context"
	"fmt"
	"log"
	"net/netip"
	"strconv"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"

	"iqt/internal/domain"
)

// NmapProber sweeps the whole target set with a single nmap port scan
type NmapProber struct {
	timeout time.Duration
}

// NewNmapProber creates an nmap-backed prober. The timeout bounds the whole scan.
func NewNmapProber(timeout time.Duration) *NmapProber {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &NmapProber{timeout: timeout}
}

// Probe runs nmap against the IPv4 targets and keeps the hosts whose port is
// open. IPv6 targets are not scanned and are always kept.
func (p *NmapProber) Probe(ctx context.Context, targets domain.TargetSet, port int) (domain.TargetSet, error) {
	v4 := targets.Filter(func(a netip.Addr) bool { return a.Is4() })
	if v4.Len() == 0 {
		return targets, nil
	}

	// Scale the budget with the sweep size; nmap parallelizes internally
	budget := p.timeout * time.Duration(1+v4.Len()/256)
	scanCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	scanner, err := nmap.NewScanner(scanCtx,
		nmap.WithTargets(v4.Strings()...),
		nmap.WithPorts(strconv.Itoa(port)),
		nmap.WithSkipHostDiscovery(),
	)
	if err != nil {
		return domain.TargetSet{}, fmt.Errorf("failed to create scanner: %w", err)
	}

	log.Printf("Nmap: probing %d targets on port %d", v4.Len(), port)
	result, warnings, err := scanner.Run()
	if err != nil {
		return domain.TargetSet{}, fmt.Errorf("scan failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		log.Printf("Nmap: warnings: %v", *warnings)
	}

	open := openHosts(result, port)
	return targets.Filter(func(a netip.Addr) bool { return !a.Is4() || open[a] }), nil
}

// openHosts collects the addresses of hosts reporting port as open
func openHosts(result *nmap.Run, port int) map[netip.Addr]bool {
	open := make(map[netip.Addr]bool)
	if result == nil {
		return open
	}
	for _, host := range result.Hosts {
		if !portOpen(host.Ports, port) {
			continue
		}
		for _, a := range host.Addresses {
			if a.AddrType != "ipv4" && a.AddrType != "ipv6" {
				continue
			}
			if addr, err := netip.ParseAddr(a.Addr); err == nil {
				open[addr.Unmap()] = true
			}
		}
	}
	return open
}

func portOpen(ports []nmap.Port, port int) bool {
	for _, p := range ports {
		if int(p.ID) == port && p.State.State == "open" {
			return true
		}
	}
	return false
}
