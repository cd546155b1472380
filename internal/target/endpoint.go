package target

import (
	"strings"

	"iqt/internal/domain"
)

// BuildEndpoints turns the target set and literal hostnames into request
// endpoints: addresses first in ascending order, then hostnames in input order.
// Blank and repeated hostnames are dropped. A port of 0 selects domain.AgentPort.
func BuildEndpoints(targets domain.TargetSet, hostnames []string, port int) []domain.Endpoint {
	if port == 0 {
		port = domain.AgentPort
	}

	endpoints := make([]domain.Endpoint, 0, targets.Len()+len(hostnames))
	for _, addr := range targets.Strings() {
		endpoints = append(endpoints, domain.NewEndpoint(addr, port))
	}

	seen := make(map[string]bool, len(hostnames))
	for _, h := range hostnames {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		endpoints = append(endpoints, domain.NewEndpoint(h, port))
	}
	return endpoints
}
