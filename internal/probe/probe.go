// Package probe checks which resolved addresses have an agent listening
// before a broadcast is dispatched.
package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"iqt/internal/domain"
)

// Methods accepted by New
const (
	MethodTCP  = "tcp"
	MethodNmap = "nmap"
)

const (
	defaultTimeout       = 2 * time.Second
	defaultMaxConcurrent = 64
)

// Prober returns the subset of targets whose agent port accepts connections
type Prober interface {
	Probe(ctx context.Context, targets domain.TargetSet, port int) (domain.TargetSet, error)
}

// New creates a prober for the named method; "" selects tcp
func New(method string, timeout time.Duration, maxConcurrent int) (Prober, error) {
	switch strings.ToLower(method) {
	case "", MethodTCP:
		return NewTCPProber(timeout, maxConcurrent), nil
	case MethodNmap:
		return NewNmapProber(timeout), nil
	default:
		return nil, fmt.Errorf("unknown probe method %q (want %s or %s)", method, MethodTCP, MethodNmap)
	}
}
