package domain

import (
	"net/netip"
	"reflect"
	"testing"
)

func mustAddrs(t *testing.T, ss ...string) []netip.Addr {
	t.Helper()
	out := make([]netip.Addr, 0, len(ss))
	for _, s := range ss {
		a, err := netip.ParseAddr(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		out = append(out, a)
	}
	return out
}

func TestNewTargetSet(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "empty",
			input: nil,
			want:  []string{},
		},
		{
			name:  "numeric not lexical order",
			input: []string{"10.0.0.10", "10.0.0.9", "10.0.0.100"},
			want:  []string{"10.0.0.9", "10.0.0.10", "10.0.0.100"},
		},
		{
			name:  "duplicates removed",
			input: []string{"192.168.1.1", "192.168.1.1", "192.168.1.0"},
			want:  []string{"192.168.1.0", "192.168.1.1"},
		},
		{
			name:  "ipv4 before ipv6",
			input: []string{"::1", "10.0.0.1"},
			want:  []string{"10.0.0.1", "::1"},
		},
		{
			name:  "mapped ipv4 collapses onto ipv4",
			input: []string{"::ffff:10.0.0.1", "10.0.0.1"},
			want:  []string{"10.0.0.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewTargetSet(mustAddrs(t, tt.input...))
			if got := set.Strings(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Strings() = %v, want %v", got, tt.want)
			}
			if set.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", set.Len(), len(tt.want))
			}
		})
	}
}

func TestTargetSetImmutable(t *testing.T) {
	input := mustAddrs(t, "10.0.0.2", "10.0.0.1")
	set := NewTargetSet(input)

	input[0] = netip.MustParseAddr("1.1.1.1")
	addrs := set.Addrs()
	addrs[0] = netip.MustParseAddr("2.2.2.2")

	if got := set.Strings(); !reflect.DeepEqual(got, []string{"10.0.0.1", "10.0.0.2"}) {
		t.Errorf("set mutated through caller slices: %v", got)
	}
}

func TestTargetSetContainsAndFilter(t *testing.T) {
	set := NewTargetSet(mustAddrs(t, "10.0.0.1", "10.0.0.2", "10.0.0.3"))

	if !set.Contains(netip.MustParseAddr("10.0.0.2")) {
		t.Error("expected set to contain 10.0.0.2")
	}
	if set.Contains(netip.MustParseAddr("10.0.0.4")) {
		t.Error("expected set not to contain 10.0.0.4")
	}

	odd := set.Filter(func(a netip.Addr) bool { return a.As4()[3]%2 == 1 })
	if got := odd.Strings(); !reflect.DeepEqual(got, []string{"10.0.0.1", "10.0.0.3"}) {
		t.Errorf("Filter() = %v", got)
	}
	if set.Len() != 3 {
		t.Errorf("Filter mutated the original set: len %d", set.Len())
	}
}

func TestNewEndpoint(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"10.0.0.1", "http://10.0.0.1:4807/graphql"},
		{"foo.test", "http://foo.test:4807/graphql"},
		{"fd00::1", "http://[fd00::1]:4807/graphql"},
	}

	for _, tt := range tests {
		ep := NewEndpoint(tt.host, AgentPort)
		if ep.URL != tt.want {
			t.Errorf("NewEndpoint(%q).URL = %s, want %s", tt.host, ep.URL, tt.want)
		}
		if ep.Host != tt.host {
			t.Errorf("NewEndpoint(%q).Host = %s", tt.host, ep.Host)
		}
	}
}

func TestQueryRequestCopiesEndpoints(t *testing.T) {
	eps := []Endpoint{NewEndpoint("a", AgentPort), NewEndpoint("b", AgentPort)}
	req := NewQueryRequest("{ hostname { name } }", eps)
	eps[0] = NewEndpoint("z", AgentPort)

	got := req.Endpoints()
	if got[0].Host != "a" {
		t.Errorf("request endpoints changed with caller slice: %v", got)
	}
}
