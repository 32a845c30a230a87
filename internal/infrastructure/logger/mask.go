package logger

import (
	"fmt"
	"strings"
)

// MaskIdentifier hides the middle of an identifier (chat id, request id,
// client IP) so logs stay correlatable without exposing the raw value.
func MaskIdentifier(value any, prefix, suffix int) string {
	text := strings.TrimSpace(fmt.Sprint(value))
	if text == "" {
		return ""
	}
	if len(text) <= prefix+suffix {
		return strings.Repeat("*", len(text))
	}
	return text[:prefix] + "***" + text[len(text)-suffix:]
}

// MaskEmail masks the local part of an email address, keeping the domain.
func MaskEmail(value string) string {
	email := strings.TrimSpace(value)
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return MaskIdentifier(email, 1, 1)
	}
	return MaskIdentifier(local, 1, 1) + "@" + domain
}
