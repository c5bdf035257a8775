package reasoning

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fencedJSONPattern matches a ```json ... ``` block. Models sometimes
// wrap their answer in prose plus a fenced block even when asked for a
// bare JSON object.
var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractJSON returns the JSON document contained in a completion. The
// content is used as-is when it already parses as JSON; otherwise the
// first fenced ```json block is tried. Returns ErrInvalidPayload when
// neither parses.
func ExtractJSON(content string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyCompletion
	}

	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	if m := fencedJSONPattern.FindStringSubmatch(trimmed); m != nil {
		fenced := strings.TrimSpace(m[1])
		if json.Valid([]byte(fenced)) {
			return json.RawMessage(fenced), nil
		}
	}

	return nil, fmt.Errorf("%w: %.80q", ErrInvalidPayload, trimmed)
}
