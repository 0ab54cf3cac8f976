// Package request provides the fluent builder for outbound HTTP requests.
//
// A Builder accumulates method, headers and an optional JSON body, then
// Build produces an immutable Descriptor:
//
//	d, err := request.New(baseURL, "/api/auth/login").
//		Method(http.MethodPost).
//		JSONBody(payload).
//		Build()
//
// Mutators never fail in the middle of a chain. The first construction
// error (serialization, invalid URL) is held by the builder and returned
// by Build.
package request
