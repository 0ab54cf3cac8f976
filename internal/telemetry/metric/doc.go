// Package metric provides Prometheus metrics for famcheck.
//
// The network client records every dispatch:
//
//   - famcheck_client_requests_total{method,path,outcome}
//   - famcheck_client_request_duration_seconds{method,path}
//   - famcheck_client_requests_in_flight
//
// The outcome label is "ok" or the error kind of a failed call, so
// dashboards can separate transport failures from server rejections.
package metric
