package nlu

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThink drops the <think>...</think> reasoning blocks DeepSeek-style
// models prepend to their answers.
func StripThink(s string) string {
	return strings.TrimSpace(thinkRe.ReplaceAllString(s, ""))
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// optional language tag on the opening fence
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ExtractJSONObject digs the first JSON object out of a model reply that
// may be wrapped in reasoning, prose or fences.
func ExtractJSONObject(raw string) (string, error) {
	return extractJSON(raw, '{', '}')
}

// ExtractJSONArray does the same for a top-level array.
func ExtractJSONArray(raw string) (string, error) {
	return extractJSON(raw, '[', ']')
}

func extractJSON(raw string, opening, closing byte) (string, error) {
	s := stripFences(StripThink(raw))

	start := strings.IndexByte(s, opening)
	if start < 0 {
		return "", errors.New("no JSON found in reply")
	}
	end := strings.LastIndexByte(s, closing)
	if end < start {
		return "", errors.New("unterminated JSON in reply")
	}

	blob := s[start : end+1]
	if !json.Valid([]byte(blob)) {
		return "", errors.New("extracted text is not valid JSON")
	}
	return blob, nil
}

// unmarshalStrict rejects fields outside the command schema so a drifting
// model reply fails loudly instead of half-parsing.
func unmarshalStrict(blob string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(blob)))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
