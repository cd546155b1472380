package target

import (
	"bufio"
	"bytes"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one address or CIDR line of an inventory
type Entry struct {
	// Source locates the entry for diagnostics, e.g. "hosts.txt:3"
	Source string
	Text   string
}

// Inventory is the decoded content of an inventory file
type Inventory struct {
	Path    string
	Entries []Entry
	// Hostnames are hosts given by name rather than address
	Hostnames []string
}

// LoadInventory reads and decodes an inventory file.
// Files ending in .yaml or .yml are read as Ansible YAML inventories;
// everything else is plain text with one entry per line.
func LoadInventory(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InventoryError{Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		inv, err := ParseAnsibleInventory(path, data)
		if err != nil {
			return nil, &InventoryError{Path: path, Err: err}
		}
		return inv, nil
	default:
		return ParseTextInventory(path, data), nil
	}
}

// ParseTextInventory splits a plain text inventory into entries.
// Blank lines and lines starting with # are ignored, as is anything after a #.
// Lines holding a DNS name become Hostnames, in file order; everything else
// is an entry for the resolver, which reports the ones it cannot expand.
func ParseTextInventory(name string, data []byte) *Inventory {
	inv := &Inventory{Path: name}
	label := filepath.Base(name)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if !isAddressEntry(text) && isHostname(text) {
			inv.Hostnames = append(inv.Hostnames, text)
			continue
		}
		inv.Entries = append(inv.Entries, Entry{
			Source: fmt.Sprintf("%s:%d", label, line),
			Text:   text,
		})
	}
	return inv
}

// isHostname reports whether s is a DNS name in RFC 1123 form.
// A name whose last label is all digits is a mistyped address, not a host.
func isHostname(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" || len(s) > 253 {
		return false
	}
	labels := strings.Split(s, ".")
	for _, l := range labels {
		if l == "" || len(l) > 63 || l[0] == '-' || l[len(l)-1] == '-' {
			return false
		}
		for _, c := range l {
			if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '-') {
				return false
			}
		}
	}
	last := labels[len(labels)-1]
	return strings.ContainsFunc(last, func(r rune) bool { return r < '0' || r > '9' })
}

// ansibleInventory is the YAML layout of an Ansible inventory
type ansibleInventory struct {
	All ansibleGroup `yaml:"all"`
}

type ansibleGroup struct {
	Hosts    map[string]ansibleHost  `yaml:"hosts,omitempty"`
	Children map[string]ansibleGroup `yaml:"children,omitempty"`
}

type ansibleHost struct {
	AnsibleHost string `yaml:"ansible_host,omitempty"`
}

// ParseAnsibleInventory collects hosts from all.hosts and every nested
// children group. A host's address is its ansible_host var, else its key.
func ParseAnsibleInventory(name string, data []byte) (*Inventory, error) {
	var doc ansibleInventory
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse Ansible inventory: %w", err)
	}

	hosts := make(map[string]string)
	collectAnsibleHosts(doc.All, hosts)

	label := filepath.Base(name)
	inv := &Inventory{Path: name}
	for _, key := range slices.Sorted(maps.Keys(hosts)) {
		addr := hosts[key]
		if isAddressEntry(addr) {
			inv.Entries = append(inv.Entries, Entry{
				Source: fmt.Sprintf("%s: host %s", label, key),
				Text:   addr,
			})
			continue
		}
		inv.Hostnames = append(inv.Hostnames, addr)
	}
	slices.Sort(inv.Hostnames)
	inv.Hostnames = slices.Compact(inv.Hostnames)
	return inv, nil
}

// collectAnsibleHosts walks a group and its children; the first definition of a host wins
func collectAnsibleHosts(group ansibleGroup, hosts map[string]string) {
	for key, h := range group.Hosts {
		if _, seen := hosts[key]; seen {
			continue
		}
		addr := strings.TrimSpace(h.AnsibleHost)
		if addr == "" {
			addr = key
		}
		hosts[key] = addr
	}
	for _, childName := range slices.Sorted(maps.Keys(group.Children)) {
		collectAnsibleHosts(group.Children[childName], hosts)
	}
}
