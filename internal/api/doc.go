// Package api adapts HTTP requests to the auth and task services. Handlers
// decode and validate input, call a single service method and translate the
// outcome into a JSON response; MapErrorToStatusCode and ErrorCode are the
// only place service errors become HTTP statuses.
package api
