package dto

import contactdomain "github.com/datamaq/notifier/internal/domain/contact"

// ContactRequest is the request body for POST /contact and POST /mail
type ContactRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=200"`
	Email       string            `json:"email" binding:"required,email,max=320"`
	Message     string            `json:"message" binding:"required,min=1,max=5000"`
	Meta        map[string]any    `json:"meta"`
	Attribution map[string]string `json:"attribution"`
}

// ToMessage converts the validated body into the domain message
func (r ContactRequest) ToMessage() contactdomain.Message {
	return contactdomain.Message{
		Name:        r.Name,
		Email:       r.Email,
		Body:        r.Message,
		Meta:        r.Meta,
		Attribution: r.Attribution,
	}
}

// AcceptedResponse acknowledges an accepted contact submission
type AcceptedResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}
