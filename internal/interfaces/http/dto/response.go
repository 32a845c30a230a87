package dto

// Response is the error envelope. Success bodies use endpoint-specific
// shapes fixed by the external API contract, so only the error side of the
// envelope is ever populated.
type Response struct {
	Success bool       `json:"success"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []ValidationDetail `json:"details,omitempty"`
	Hint    string             `json:"hint,omitempty"`
}

// ValidationDetail describes one failed field validation
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewValidationErrorResponse creates an error response carrying per-field
// details and an optional usage hint.
func NewValidationErrorResponse(message string, details []ValidationDetail, hint string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    "VALIDATION_ERROR",
			Message: message,
			Details: details,
			Hint:    hint,
		},
	}
}
