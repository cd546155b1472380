package target

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func entryTexts(inv *Inventory) []string {
	out := make([]string, len(inv.Entries))
	for i, e := range inv.Entries {
		out[i] = e.Text
	}
	return out
}

func TestParseTextInventory(t *testing.T) {
	inv := ParseTextInventory("/etc/iqt/hosts", []byte(`# lab network
10.0.0.0/30

192.168.1.5   # printer
  fd00::1
`))
	want := []string{"10.0.0.0/30", "192.168.1.5", "fd00::1"}
	if got := entryTexts(inv); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
	if inv.Entries[1].Source != "hosts:4" {
		t.Errorf("entry source = %q, want hosts:4", inv.Entries[1].Source)
	}
}

func TestParseTextInventoryHostnames(t *testing.T) {
	inv := ParseTextInventory("hosts.txt", []byte(`web1.lan
10.0.0.1
db-02.internal.   # trailing dot
10.0.0.256
bad_name.lan
-edge.lan
localhost
`))

	wantHosts := []string{"web1.lan", "db-02.internal.", "localhost"}
	if !slices.Equal(inv.Hostnames, wantHosts) {
		t.Errorf("hostnames = %v, want %v", inv.Hostnames, wantHosts)
	}
	wantEntries := []string{"10.0.0.1", "10.0.0.256", "bad_name.lan", "-edge.lan"}
	if got := entryTexts(inv); !slices.Equal(got, wantEntries) {
		t.Errorf("entries = %v, want %v", got, wantEntries)
	}
}

func TestIsHostname(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"web1.lan", true},
		{"WEB1", true},
		{"a-b.c-d.example", true},
		{"host.", true},
		{"10.0.0.256", false},
		{"1.2.3", false},
		{"10.0.0.0/24", false},
		{"under_score", false},
		{"-lead", false},
		{"trail-", false},
		{"double..dot", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isHostname(tt.in); got != tt.want {
			t.Errorf("isHostname(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadInventoryMissingFile(t *testing.T) {
	_, err := LoadInventory(filepath.Join(t.TempDir(), "missing.txt"))
	var invErr *InventoryError
	if !errors.As(err, &invErr) {
		t.Fatalf("LoadInventory() error = %v, want *InventoryError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadInventory() error does not wrap fs.ErrNotExist: %v", err)
	}
}

func TestLoadInventoryText(t *testing.T) {
	path := writeFile(t, "hosts.txt", "10.0.0.1\n10.0.0.2\n")
	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory() error = %v", err)
	}
	if len(inv.Entries) != 2 {
		t.Errorf("LoadInventory() returned %d entries, want 2", len(inv.Entries))
	}
}

func TestLoadInventoryAnsible(t *testing.T) {
	path := writeFile(t, "inventory.yml", `all:
  hosts:
    gateway:
      ansible_host: 192.168.1.1
    10.0.0.7:
  children:
    web:
      hosts:
        web01:
          ansible_host: 192.168.1.20
        web02.lan:
    db:
      hosts:
        db01:
          ansible_host: db01.internal
      children:
        replicas:
          hosts:
            db02:
              ansible_host: 192.168.1.31
`)
	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory() error = %v", err)
	}

	wantEntries := []string{"10.0.0.7", "192.168.1.31", "192.168.1.1", "192.168.1.20"}
	if got := entryTexts(inv); !slices.Equal(got, wantEntries) {
		t.Errorf("entries = %v, want %v", got, wantEntries)
	}
	wantHosts := []string{"db01.internal", "web02.lan"}
	if !slices.Equal(inv.Hostnames, wantHosts) {
		t.Errorf("hostnames = %v, want %v", inv.Hostnames, wantHosts)
	}
}

func TestLoadInventoryBadYAML(t *testing.T) {
	path := writeFile(t, "inventory.yaml", "all: [unclosed\n")
	_, err := LoadInventory(path)
	var invErr *InventoryError
	if !errors.As(err, &invErr) {
		t.Fatalf("LoadInventory() error = %v, want *InventoryError", err)
	}
}

func TestResolveWithAnsibleInventory(t *testing.T) {
	inv, err := ParseAnsibleInventory("inv.yaml", []byte(`all:
  hosts:
    a:
      ansible_host: 10.0.0.2
    b:
      ansible_host: 10.0.0.1
    c:
      ansible_host: storage.lan
`))
	if err != nil {
		t.Fatalf("ParseAnsibleInventory() error = %v", err)
	}
	res := NewResolver(Options{}).Resolve(nil, inv)
	if got := res.Targets.Strings(); !slices.Equal(got, []string{"10.0.0.1", "10.0.0.2"}) {
		t.Errorf("targets = %v", got)
	}
	if !slices.Equal(res.Hostnames, []string{"storage.lan"}) {
		t.Errorf("hostnames = %v", res.Hostnames)
	}
}
