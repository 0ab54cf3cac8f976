// Package repository assembles the auth endpoint calls.
//
// AuthRepository is the only caller that builds descriptors for specific
// endpoints. It drives the network client end to end and returns its result
// unchanged: no retry, no session persistence. Persisting a session on
// success is the caller's job.
package repository
