// Package handler implements the HTTP surface of the iqt agent.
//
// # Endpoints
//
//	POST /graphql   execute a query document
//	POST /          same as /graphql
//	GET  /          interactive query explorer
//	GET  /healthz   liveness and the list of enabled capabilities
//
// Query requests carry a JSON body {"query": ..., "variables": ..., "operationName": ...}.
// Responses are always {"data": ..., "errors": [...]} with status 200 once the
// body has been decoded; a field that failed on the host appears in errors
// while its siblings keep their values.
//
// Malformed request bodies are answered with 400 and the {error, details}
// structure.
//
// Middleware provides panic recovery and request logging.
package handler
