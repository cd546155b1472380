// Package domain defines the core types shared by the iqt CLI and the iqt agent.
//
// # Targets
//
// TargetSet is the deduplicated, ascending set of host addresses resolved from
// subnets and inventory files. It is built once per invocation and never mutated.
//
// Endpoint is a request destination on a host running the agent. Endpoints are
// built from a TargetSet plus literal hostnames.
//
// QueryRequest pairs the query text with the endpoints it is sent to.
//
// # Field Outcomes
//
// FieldOutcome is the unit of partial failure in an agent response. It holds
// either a typed value or an error, never both. A failed field does not affect
// its siblings in the same response.
//
// # Records
//
// HostnameResult, DiskUsage, DockerProcess, RouteEntry, AddressInfo and LinkInfo
// are the typed records produced from command output on the agent.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No network, process or database dependencies
package domain
