// Package api is the HTTP transport: chi routes, request decoding and
// validation, and the mapping from service and quiz errors to status codes.
// The caller's identity arrives in the X-User-ID header.
package api
