package types

// ErrorResponse is the public error body. Errors carries field level
// validation details when the error code allows them.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Errors  any    `json:"errors,omitempty"`
}

// StatusResponse is returned by simple acknowledgement endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}
