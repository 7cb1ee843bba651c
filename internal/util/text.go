package util

import "strings"

// CleanText drops invalid UTF-8 and NUL bytes and collapses runs of
// whitespace, including full-width spaces, into a single space.
func CleanText(value string) string {
	if value == "" {
		return value
	}

	cleaned := strings.ToValidUTF8(value, "")
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// StripCodeFence returns the body of the first markdown code block in value,
// or value unchanged when it contains none.
func StripCodeFence(value string) string {
	start := strings.Index(value, "```")
	if start < 0 {
		return value
	}
	body := value[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
