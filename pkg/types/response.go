package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope repeats the public message at the top level for clients that
// only read "message".
type ErrorEnvelope struct {
	Message string   `json:"message"`
	Error   APIError `json:"error"`
}

// DeletedResponse is returned by delete endpoints.
type DeletedResponse struct {
	ID string `json:"id"`
}
