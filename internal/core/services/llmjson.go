package services

import (
	"regexp"
	"strings"
)

var (
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
	jsonArrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

// extractJSONPayload pulls a JSON object or array out of a model reply.
// Models often wrap their answer in markdown fences or surround it with
// prose; this strips the fences and returns the outermost JSON value.
// Returns an empty string when no JSON value is present.
func extractJSONPayload(reply string, wantArray bool) string {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)

	re := jsonObjectRe
	if wantArray {
		re = jsonArrayRe
	}
	return re.FindString(s)
}
