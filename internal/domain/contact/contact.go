package contact

import "strings"

// Message is one validated contact-form submission.
type Message struct {
	Name        string
	Email       string
	Body        string
	Meta        map[string]any
	Attribution map[string]string
}

// HoneypotValue returns the trimmed value of the anti-bot field, if any.
// Humans leave the field empty; a non-blank value marks the submission as
// automated.
func (m Message) HoneypotValue(field string) string {
	if m.Attribution == nil {
		return ""
	}
	return strings.TrimSpace(m.Attribution[field])
}
