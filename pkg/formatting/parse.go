package formatting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrParseFailed is returned when content cannot be parsed as a JSON object,
// either directly or from a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse unmarshals content as JSON into T. If direct parsing fails, it
// extracts JSON from a markdown code fence and retries. Returns
// ErrParseFailed if both attempts fail. The reported content is truncated.
func Parse[T any](content []byte) (T, error) {
	var result T
	content = bytes.TrimSpace(content)

	if err := json.Unmarshal(content, &result); err == nil {
		return result, nil
	}

	if matches := jsonBlockRegex.FindSubmatch(content); len(matches) >= 2 {
		cleaned := bytes.TrimSpace(matches[1])
		if err := json.Unmarshal(cleaned, &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, truncate(content, 200))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
