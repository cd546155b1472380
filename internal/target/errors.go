package target

import "fmt"

// SubnetParseError describes one subnet or inventory entry that could not be
// expanded. It is a diagnostic: resolution continues with the other entries.
type SubnetParseError struct {
	// Source names where the entry came from, e.g. "-subnet" or "hosts.txt:12"
	Source string
	Entry  string
	Err    error
}

func (e *SubnetParseError) Error() string {
	return fmt.Sprintf("%s: skipping %q: %v", e.Source, e.Entry, e.Err)
}

func (e *SubnetParseError) Unwrap() error {
	return e.Err
}

// InventoryError means the inventory file could not be read or decoded
type InventoryError struct {
	Path string
	Err  error
}

func (e *InventoryError) Error() string {
	return fmt.Sprintf("inventory %s: %v", e.Path, e.Err)
}

func (e *InventoryError) Unwrap() error {
	return e.Err
}
