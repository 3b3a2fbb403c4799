// Package handler turns HTTP requests into service calls.
//
// Every employee endpoint is a typed function receiving a request struct
// that Echo binds from the path, query and body. Binding and validation
// failures never reach the service; service errors are returned untouched
// for the global error handler to render.
package handler
