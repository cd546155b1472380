// Package adapter turns capability requests into operating-system commands and
// typed records.
//
// Each capability (hostname, disk, docker, ip.route, ip.address, ip.link) is a
// CommandAdapter: it builds a fixed program name and argument list from the
// requested operation and field arguments, runs it through a Runner, and hands
// stdout to the capability's parser.
//
// # Field-level failure
//
// Every invocation produces a domain.FieldOutcome. A process that cannot be
// started (SpawnError), exits non-zero (ExitError) or prints output its parser
// rejects (ParseError) fails only that field. Nothing is retried and nothing is
// cached: every invocation spawns a fresh process.
//
// # Runners
//
// LocalRunner executes commands on the agent's own host. SSHRunner executes
// them on a fronted host over SSH, for machines that cannot run the agent.
//
// # Registry
//
// Registry is the static mapping from capability name to adapter. It is built
// at startup and answers field requests from the query engine. Runner, command
// timeout and the set of disabled capabilities can be swapped at runtime when
// the agent configuration is reloaded.
package adapter
