// Package connection provides the network client for famcheck.
//
// This package dispatches request descriptors and turns responses into
// typed results:
//
//   - http.go: Client, the transport wrapper (request IDs, logging, metrics)
//   - validate.go: status code classification into domain error kinds
//   - perform.go: PerformRequest, dispatch + classify + decode in one call
//
// Every failure is returned as a *domain.DomainError; nothing is retried.
package connection
