// Package dto holds the request and response shapes of the HTTP API.
package dto

// ErrorResponse is a request-level failure, e.g. a malformed body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DetailResponse is a generic server-side failure. It deliberately carries
// no internals.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse acknowledges an operation with a human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}
