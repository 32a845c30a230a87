package telegram

import (
	"encoding/json"
	"math"
)

// ExtractChatID walks a raw Telegram update and returns the nested chat id.
// Lookup precedence: message, then edited_message, then the message embedded
// in a callback_query. The first non-empty message object wins; if it holds
// no usable id the remaining keys are not consulted. The id must be
// integer-typed; a string id is treated as absent, never coerced.
func ExtractChatID(update map[string]any) (int64, bool) {
	message := firstMessage(update)
	if message == nil {
		return 0, false
	}
	chat, ok := message["chat"].(map[string]any)
	if !ok {
		return 0, false
	}
	return asInteger(chat["id"])
}

func firstMessage(update map[string]any) map[string]any {
	for _, key := range []string{"message", "edited_message"} {
		if m, ok := update[key].(map[string]any); ok && len(m) > 0 {
			return m
		}
	}
	if callback, ok := update["callback_query"].(map[string]any); ok {
		if m, ok := callback["message"].(map[string]any); ok && len(m) > 0 {
			return m
		}
	}
	return nil
}

// asInteger accepts the numeric representations a decoded JSON update may
// carry. encoding/json yields float64; only integral values qualify.
func asInteger(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int64(n), true
		}
		return 0, false
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
