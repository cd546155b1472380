// Package target turns operator input into the set of endpoints a query is
// broadcast to.
//
// Subnet strings and inventory entries are expanded into a domain.TargetSet.
// Malformed entries are reported as *SubnetParseError diagnostics and never
// abort resolution; failing to read the inventory file is the only fatal
// error (*InventoryError).
package target
