package logger

import "strings"

// Keys whose values are guardian/student contact details. Log lines carry
// them masked to the last four digits; full numbers live only in the store.
var piiKeys = []string{
	"phone",
	"school_phone",
	"guardian_phone",
}

// MaskPhone masks a phone number, preserving only the last 4 digits.
func MaskPhone(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return maskLast4(value)
}

// MaskPayload returns a deep-copied map with contact fields masked, safe to
// attach to log entries and job records.
func MaskPayload(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		if isPIIKey(key) {
			out[key] = maskValue(value)
			continue
		}
		out[key] = maskNested(value)
	}
	return out
}

func maskNested(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return MaskPayload(typed)
	case []any:
		items := make([]any, 0, len(typed))
		for _, entry := range typed {
			items = append(items, maskNested(entry))
		}
		return items
	default:
		return value
	}
}

func maskValue(value any) any {
	switch typed := value.(type) {
	case string:
		return maskLast4(typed)
	case []byte:
		return maskLast4(string(typed))
	default:
		return "****"
	}
}

func isPIIKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, needle := range piiKeys {
		if key == needle || strings.HasSuffix(key, "_"+needle) {
			return true
		}
	}
	return false
}

func maskLast4(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****" + value
	}
	return "****" + value[len(value)-4:]
}
