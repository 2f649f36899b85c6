// Package http implements the chi handlers of the analysis service. Handlers
// only translate between HTTP and the services package: they read the
// request, call a service and render the result or hand the error to the
// RFC 7807 error handler.
//
// Routes:
//
//	POST /api/analyze           multipart upload, field "file"; ?format=csv|xlsx downloads the report
//	GET  /api/health            overall status
//	GET  /api/health/ready      readiness
//	GET  /api/health/live       liveness
//	GET  /api/version           build information
package http
