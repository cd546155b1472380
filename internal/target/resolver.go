package target

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"iqt/internal/domain"
)

// Policy controls which addresses of a block are enumerated
type Policy string

const (
	// PolicyAll enumerates every address of the block, including the network
	// and broadcast addresses
	PolicyAll Policy = "all"
	// PolicyHostsOnly drops the network and broadcast addresses of IPv4 blocks
	// up to /30 and the subnet-router address of IPv6 blocks up to /126
	PolicyHostsOnly Policy = "hosts-only"
)

// DefaultMaxAddresses caps the size of a single subnet entry
const DefaultMaxAddresses = 65536

// ParsePolicy validates a policy name; "" selects PolicyAll
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAll:
		return PolicyAll, nil
	case PolicyHostsOnly:
		return PolicyHostsOnly, nil
	default:
		return "", fmt.Errorf("unknown enumeration policy %q (want %s or %s)", s, PolicyAll, PolicyHostsOnly)
	}
}

// Options configures a Resolver
type Options struct {
	Policy       Policy
	MaxAddresses int
}

// Resolver expands subnet strings and inventory entries into a TargetSet
type Resolver struct {
	policy Policy
	max    int
}

// NewResolver creates a resolver, filling in defaults for zero options
func NewResolver(opts Options) *Resolver {
	if opts.Policy == "" {
		opts.Policy = PolicyAll
	}
	if opts.MaxAddresses <= 0 {
		opts.MaxAddresses = DefaultMaxAddresses
	}
	return &Resolver{policy: opts.Policy, max: opts.MaxAddresses}
}

// Resolution is the outcome of resolving one invocation's input
type Resolution struct {
	Targets domain.TargetSet
	// Hostnames are inventory entries that name hosts rather than addresses
	Hostnames []string
	// Diagnostics lists every entry that was skipped
	Diagnostics []*SubnetParseError
}

// Resolve expands subnets and the optional inventory. It never fails; bad
// entries are collected in Diagnostics.
func (r *Resolver) Resolve(subnets []string, inv *Inventory) Resolution {
	var res Resolution
	var addrs []netip.Addr

	for _, s := range subnets {
		expanded, err := r.Expand(s)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, &SubnetParseError{Source: "-subnet", Entry: s, Err: err})
			continue
		}
		addrs = append(addrs, expanded...)
	}

	if inv != nil {
		for _, entry := range inv.Entries {
			expanded, err := r.Expand(entry.Text)
			if err != nil {
				res.Diagnostics = append(res.Diagnostics, &SubnetParseError{Source: entry.Source, Entry: entry.Text, Err: err})
				continue
			}
			addrs = append(addrs, expanded...)
		}
		res.Hostnames = append(res.Hostnames, inv.Hostnames...)
	}

	res.Targets = domain.NewTargetSet(addrs)
	return res
}

// Expand enumerates the addresses denoted by a CIDR block or a single address
func (r *Resolver) Expand(entry string) ([]netip.Addr, error) {
	prefix, err := parseEntry(entry)
	if err != nil {
		return nil, err
	}

	hostBits := prefix.Addr().BitLen() - prefix.Bits()
	if hostBits >= 63 || uint64(1)<<hostBits > uint64(r.max) {
		return nil, fmt.Errorf("block /%d exceeds the limit of %d addresses", prefix.Bits(), r.max)
	}

	addrs := make([]netip.Addr, 0, 1<<hostBits)
	for a := prefix.Addr(); a.IsValid() && prefix.Contains(a); a = a.Next() {
		addrs = append(addrs, a)
	}
	return r.applyPolicy(prefix, addrs), nil
}

func (r *Resolver) applyPolicy(prefix netip.Prefix, addrs []netip.Addr) []netip.Addr {
	if r.policy != PolicyHostsOnly {
		return addrs
	}
	switch {
	case prefix.Addr().Is4() && prefix.Bits() <= 30:
		return addrs[1 : len(addrs)-1]
	case prefix.Addr().Is6() && prefix.Bits() <= 126:
		return addrs[1:]
	default:
		return addrs
	}
}

// parseEntry accepts "10.0.0.0/24", "10.0.0.5" or "fd00::/120" and returns the
// masked prefix; a bare address becomes a single-address prefix
func parseEntry(entry string) (netip.Prefix, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return netip.Prefix{}, errors.New("empty entry")
	}

	if strings.Contains(entry, "/") {
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("invalid CIDR: %w", err)
		}
		return unmapPrefix(prefix).Masked(), nil
	}

	addr, err := netip.ParseAddr(entry)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid address: %w", err)
	}
	addr = addr.Unmap().WithZone("")
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// unmapPrefix turns ::ffff:a.b.c.d/n into its IPv4 equivalent
func unmapPrefix(p netip.Prefix) netip.Prefix {
	if !p.Addr().Is4In6() {
		return p
	}
	bits := p.Bits() - 96
	if bits < 0 {
		return p
	}
	return netip.PrefixFrom(p.Addr().Unmap(), bits)
}

// isAddressEntry reports whether entry parses as an address or CIDR block
func isAddressEntry(entry string) bool {
	_, err := parseEntry(entry)
	return err == nil
}
