package probe

import (
	"context"
	"log"
	"net"
	"net/netip"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"iqt/internal/domain"
)

// TCPProber connects to each address in turn with a bounded worker pool
type TCPProber struct {
	timeout       time.Duration
	maxConcurrent int
}

// NewTCPProber creates a TCP connect prober
func NewTCPProber(timeout time.Duration, maxConcurrent int) *TCPProber {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &TCPProber{timeout: timeout, maxConcurrent: maxConcurrent}
}

// Probe dials every target on port and keeps the ones that answer
func (p *TCPProber) Probe(ctx context.Context, targets domain.TargetSet, port int) (domain.TargetSet, error) {
	if targets.Len() == 0 {
		return targets, nil
	}

	var mu sync.Mutex
	alive := make(map[netip.Addr]bool)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)
	for _, addr := range targets.Addrs() {
		g.Go(func() error {
			if p.probePort(gctx, addr, port) {
				mu.Lock()
				alive[addr] = true
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.TargetSet{}, err
	}

	log.Printf("Probe: %d of %d targets answer on port %d", len(alive), targets.Len(), port)
	return targets.Filter(func(a netip.Addr) bool { return alive[a] }), nil
}

// probePort attempts to connect to a TCP port
func (p *TCPProber) probePort(ctx context.Context, addr netip.Addr, port int) bool {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr.String(), strconv.Itoa(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
