package domain

import "errors"

// Model gateway error kinds
var (
	// ErrGatewayUnreachable indicates the gateway could not be reached or answered with a non-success status
	ErrGatewayUnreachable = errors.New("model gateway unreachable")

	// ErrGatewayTimeout indicates a request to the gateway timed out
	ErrGatewayTimeout = errors.New("model gateway request timeout")

	// ErrMalformedResponse indicates the gateway answered with a body that could not be parsed
	ErrMalformedResponse = errors.New("malformed gateway response")

	// ErrModelNotFound indicates the gateway does not know the requested model
	ErrModelNotFound = errors.New("model not found")

	// ErrInvalidRequest indicates an invalid request was made (4xx client errors)
	ErrInvalidRequest = errors.New("invalid request")
)
