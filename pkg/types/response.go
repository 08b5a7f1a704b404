package types

// APIError is the public error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError for transport.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
