// Package schema defines the query schema an agent serves and the operations
// on it: validating a query document and executing it against a Resolver.
//
// Every capability field is nullable, so a failed field is reported in the
// response's errors list while its siblings still carry values.
package schema
