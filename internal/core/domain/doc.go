// Package domain defines the core domain models for famcheck.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Session: the locally persisted proof of authentication
//   - Auth DTOs: request and response records of the auth endpoints
//   - Errors: the closed error taxonomy surfaced to callers
package domain
