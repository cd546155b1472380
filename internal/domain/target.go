package domain

import (
	"net"
	"net/netip"
	"slices"
	"strconv"
)

const (
	// AgentPort is the port every agent listens on
	AgentPort = 4807
	// GraphQLPath is the request path of the agent's query endpoint
	GraphQLPath = "/graphql"
)

// TargetSet is an ordered, duplicate-free set of host addresses.
// The zero value is an empty set.
type TargetSet struct {
	addrs []netip.Addr
}

// NewTargetSet builds a TargetSet from addrs, sorting them numerically and
// dropping duplicates. IPv4 addresses sort before IPv6 addresses.
func NewTargetSet(addrs []netip.Addr) TargetSet {
	if len(addrs) == 0 {
		return TargetSet{}
	}
	sorted := make([]netip.Addr, 0, len(addrs))
	for _, a := range addrs {
		if a.IsValid() {
			sorted = append(sorted, a.Unmap().WithZone(""))
		}
	}
	slices.SortFunc(sorted, func(a, b netip.Addr) int { return a.Compare(b) })
	return TargetSet{addrs: slices.Compact(sorted)}
}

// Len returns the number of addresses in the set
func (s TargetSet) Len() int {
	return len(s.addrs)
}

// Addrs returns a copy of the addresses in ascending order
func (s TargetSet) Addrs() []netip.Addr {
	return slices.Clone(s.addrs)
}

// Strings returns the textual form of every address in ascending order
func (s TargetSet) Strings() []string {
	out := make([]string, len(s.addrs))
	for i, a := range s.addrs {
		out[i] = a.String()
	}
	return out
}

// Contains reports whether addr is a member of the set
func (s TargetSet) Contains(addr netip.Addr) bool {
	_, found := slices.BinarySearchFunc(s.addrs, addr.Unmap().WithZone(""), func(a, b netip.Addr) int {
		return a.Compare(b)
	})
	return found
}

// Filter returns a new set holding only the addresses for which keep returns true
func (s TargetSet) Filter(keep func(netip.Addr) bool) TargetSet {
	var out []netip.Addr
	for _, a := range s.addrs {
		if keep(a) {
			out = append(out, a)
		}
	}
	return TargetSet{addrs: out}
}

// Endpoint is a resolved request destination
type Endpoint struct {
	// Host is the address or hostname the endpoint was built from
	Host string `json:"host"`
	// URL is the full request URL, e.g. http://10.0.0.1:4807/graphql
	URL string `json:"url"`
}

// NewEndpoint builds the endpoint for host on the given port.
// IPv6 literals are bracketed.
func NewEndpoint(host string, port int) Endpoint {
	return Endpoint{
		Host: host,
		URL:  "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + GraphQLPath,
	}
}

// String returns the endpoint URL
func (e Endpoint) String() string {
	return e.URL
}

// QueryRequest is the query text and the endpoints it will be sent to
type QueryRequest struct {
	Query     string
	endpoints []Endpoint
}

// NewQueryRequest creates a request; the endpoint slice is copied
func NewQueryRequest(query string, endpoints []Endpoint) QueryRequest {
	return QueryRequest{Query: query, endpoints: slices.Clone(endpoints)}
}

// Endpoints returns a copy of the request's endpoints in dispatch order
func (r QueryRequest) Endpoints() []Endpoint {
	return slices.Clone(r.endpoints)
}
