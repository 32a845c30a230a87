package dto

// WebhookAck acknowledges a processed webhook invocation. CapturedChatID is
// null when the update carried no extractable chat id.
type WebhookAck struct {
	OK             bool   `json:"ok"`
	CapturedChatID *int64 `json:"captured_chat_id"`
}

// LastChatResponse reports the current stored chat id, null when none has
// been captured yet.
type LastChatResponse struct {
	LastChatID *int64 `json:"last_chat_id"`
}

// NewWebhookAck builds the webhook acknowledgment
func NewWebhookAck(chatID int64, found bool) WebhookAck {
	ack := WebhookAck{OK: true}
	if found {
		ack.CapturedChatID = &chatID
	}
	return ack
}

// NewLastChatResponse builds the last-chat payload
func NewLastChatResponse(chatID int64, found bool) LastChatResponse {
	var resp LastChatResponse
	if found {
		resp.LastChatID = &chatID
	}
	return resp
}
