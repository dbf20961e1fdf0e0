package messaging

import (
	"context"
	"strings"
)

// Result is the outcome of one dispatch attempt.
type Result struct {
	Success           bool   `json:"success"`
	ProviderMessageID string `json:"provider_message_id,omitempty"`
	Error             string `json:"error,omitempty"`
}

// Gateway is the outbound messaging boundary. The production
// implementation posts to the WhatsApp provider; tests use fakes.
type Gateway interface {
	Send(ctx context.Context, toE164, body string) (Result, error)
}

// ToE164 normalizes a digits-only Brazilian phone to E.164. Numbers
// already carrying the 55 country code pass through.
func ToE164(digits string) string {
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "+") {
		return digits
	}
	if len(digits) >= 12 && strings.HasPrefix(digits, "55") {
		return "+" + digits
	}
	return "+55" + digits
}
