// Package errs defines the error types returned to API clients.
//
// Every failure the service reports ends up as an HTTPError so clients
// receive a consistent JSON shape: a machine code, a message, the HTTP
// status and optional field-level details.
package errs
