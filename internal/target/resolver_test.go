package target

import (
	"errors"
	"net/netip"
	"slices"
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		entry   string
		want    []string
		wantLen int
		wantErr bool
	}{
		{
			name:  "slash 30 all",
			entry: "10.0.0.0/30",
			want:  []string{"10.0.0.0", "10.0.0.1", "10.0.0.2", "10.0.0.3"},
		},
		{
			name:   "slash 30 hosts only",
			policy: PolicyHostsOnly,
			entry:  "10.0.0.0/30",
			want:   []string{"10.0.0.1", "10.0.0.2"},
		},
		{
			name:   "slash 31 hosts only keeps both",
			policy: PolicyHostsOnly,
			entry:  "10.0.0.0/31",
			want:   []string{"10.0.0.0", "10.0.0.1"},
		},
		{
			name:   "single address hosts only",
			policy: PolicyHostsOnly,
			entry:  "192.168.1.10",
			want:   []string{"192.168.1.10"},
		},
		{
			name:  "unmasked block is masked",
			entry: "10.0.0.3/30",
			want:  []string{"10.0.0.0", "10.0.0.1", "10.0.0.2", "10.0.0.3"},
		},
		{
			name:    "slash 24",
			entry:   "192.168.1.0/24",
			wantLen: 256,
		},
		{
			name:  "ipv6",
			entry: "fd00::/127",
			want:  []string{"fd00::", "fd00::1"},
		},
		{
			name:   "ipv6 hosts only drops subnet router",
			policy: PolicyHostsOnly,
			entry:  "fd00::/126",
			want:   []string{"fd00::1", "fd00::2", "fd00::3"},
		},
		{
			name:  "ipv4 mapped",
			entry: "::ffff:10.0.0.0/127",
			want:  []string{"10.0.0.0", "10.0.0.1"},
		},
		{
			name:  "top of address space",
			entry: "255.255.255.254/31",
			want:  []string{"255.255.255.254", "255.255.255.255"},
		},
		{name: "garbage", entry: "not-a-subnet", wantErr: true},
		{name: "bad prefix length", entry: "10.0.0.0/33", wantErr: true},
		{name: "empty", entry: "  ", wantErr: true},
		{name: "too large", entry: "10.0.0.0/8", wantErr: true},
		{name: "ipv6 too large", entry: "fd00::/64", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(Options{Policy: tt.policy})
			addrs, err := r.Expand(tt.entry)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expand(%q) error = %v, wantErr %v", tt.entry, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.want != nil {
				got := make([]string, len(addrs))
				for i, a := range addrs {
					got[i] = a.String()
				}
				if !slices.Equal(got, tt.want) {
					t.Errorf("Expand(%q) = %v, want %v", tt.entry, got, tt.want)
				}
				return
			}
			if len(addrs) != tt.wantLen {
				t.Errorf("Expand(%q) returned %d addresses, want %d", tt.entry, len(addrs), tt.wantLen)
			}
		})
	}
}

func TestExpandMaxAddresses(t *testing.T) {
	r := NewResolver(Options{MaxAddresses: 4})
	if _, err := r.Expand("10.0.0.0/30"); err != nil {
		t.Errorf("Expand(/30) with limit 4 error = %v", err)
	}
	if _, err := r.Expand("10.0.0.0/29"); err == nil {
		t.Error("Expand(/29) with limit 4 expected error")
	}
}

func TestResolve(t *testing.T) {
	r := NewResolver(Options{})
	inv := ParseTextInventory("hosts.txt", []byte("10.0.0.2\n10.0.0.8/31\n10.0.0.256\nweb1.lan\n"))

	res := r.Resolve([]string{"10.0.0.0/30", "10.0.0.300/24", "fd00::1"}, inv)

	want := []string{"10.0.0.0", "10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.8", "10.0.0.9", "fd00::1"}
	if got := res.Targets.Strings(); !slices.Equal(got, want) {
		t.Errorf("Resolve() targets = %v, want %v", got, want)
	}

	if len(res.Diagnostics) != 2 {
		t.Fatalf("Resolve() returned %d diagnostics, want 2: %v", len(res.Diagnostics), res.Diagnostics)
	}
	if res.Diagnostics[0].Source != "-subnet" || res.Diagnostics[0].Entry != "10.0.0.300/24" {
		t.Errorf("diagnostic[0] = %v", res.Diagnostics[0])
	}
	if res.Diagnostics[1].Source != "hosts.txt:3" || res.Diagnostics[1].Entry != "10.0.0.256" {
		t.Errorf("diagnostic[1] = %v", res.Diagnostics[1])
	}
	if !slices.Equal(res.Hostnames, []string{"web1.lan"}) {
		t.Errorf("Resolve() hostnames = %v, want [web1.lan]", res.Hostnames)
	}
}

func TestResolveEmpty(t *testing.T) {
	res := NewResolver(Options{}).Resolve(nil, nil)
	if res.Targets.Len() != 0 {
		t.Errorf("Resolve(nil, nil) targets = %v, want empty", res.Targets.Strings())
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("Resolve(nil, nil) diagnostics = %v, want none", res.Diagnostics)
	}
}

func TestResolveDeduplicates(t *testing.T) {
	res := NewResolver(Options{}).Resolve([]string{"10.0.0.0/31", "10.0.0.1", "10.0.0.0/30"}, nil)
	if res.Targets.Len() != 4 {
		t.Errorf("Resolve() returned %d targets, want 4: %v", res.Targets.Len(), res.Targets.Strings())
	}
	if !res.Targets.Contains(netip.MustParseAddr("10.0.0.1")) {
		t.Error("Resolve() lost 10.0.0.1")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyAll, false},
		{"all", PolicyAll, false},
		{"Hosts-Only", PolicyHostsOnly, false},
		{"usable", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSubnetParseErrorUnwraps(t *testing.T) {
	_, err := NewResolver(Options{}).Expand("nope")
	diag := &SubnetParseError{Source: "-subnet", Entry: "nope", Err: err}
	if !errors.Is(diag, err) {
		t.Error("SubnetParseError does not unwrap")
	}
}
