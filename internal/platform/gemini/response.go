package gemini

import "strings"

// stripCodeFence removes a surrounding markdown code fence, if any, from the
// model output. Models occasionally wrap JSON in ```json ... ``` despite
// instructions not to.
func stripCodeFence(text string) string {
	body := strings.TrimSpace(text)
	if !strings.HasPrefix(body, "```") {
		return body
	}

	body = strings.TrimPrefix(body, "```")
	if newline := strings.IndexByte(body, '\n'); newline >= 0 {
		// Drop the language tag line (e.g. "json").
		body = body[newline+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
