// Package broadcast sends one query to every endpoint of a request.
//
// A Dispatcher moves through Idle, Validated, Dispatching and ends in Done or
// Aborted. The query is validated once before any request is made; an invalid
// query aborts without touching the network. A transport failure either
// aborts the remaining broadcast (PolicyFailFast) or is recorded on that
// endpoint's result while the others proceed (PolicyIsolate).
package broadcast
