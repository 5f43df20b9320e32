/*
Package httpserver runs the certificate registry API.

The server mounts API handlers (see api/certhandler and api/metadatahandler)
behind a common middleware stack: request IDs, real client IPs, structured
access logs, panic recovery, security headers and CORS. Registry and metadata
routes are additionally subject to a global rate limit and a request body
size limit.

# Operational endpoints

  - GET /health - {"success":true,"data":"healthy"}
  - GET /livez - process liveness
  - GET /readyz - readiness, false while draining or while a readiness check fails
  - GET /drain, /undrain - toggle readiness ahead of a rollout
  - GET /api-docs/openapi.json - the OpenAPI document
  - /debug/pprof - when pprof is enabled

Prometheus metrics are served on a separate listener (see package metrics).
*/
package httpserver
