package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidSecret = NewDomainError("INVALID_SECRET", "Invalid Telegram secret token")
	ErrNoConversation = NewDomainError(
		"NO_CONVERSATION_AVAILABLE",
		"last_chat_id es null. Escribile al bot primero para capturarlo o configura telegram.fallback_chat_id.",
	)
	ErrHoneypot = NewDomainError("BAD_REQUEST", "Invalid request")
)
