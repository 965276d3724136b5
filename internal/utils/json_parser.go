package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyOutput is returned when the model produced nothing to parse
var ErrEmptyOutput = errors.New("empty model output")

var (
	fencedJSON     = regexp.MustCompile("(?s)```(?:json|JSON)\\s*(.+?)\\s*```")
	fencedAny      = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	trailingComma  = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKey    = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
	pythonLiterals = map[string]string{"True": "true", "False": "false", "None": "null"}
)

// ParseAIJSON decodes JSON out of model output. The output may be pure JSON,
// fenced in a markdown block, embedded in prose, or slightly malformed
// (trailing commas, unquoted keys, single quotes, Python literals).
func ParseAIJSON(input string, target any) error {
	input = strings.TrimSpace(strings.TrimPrefix(input, "\ufeff"))
	if input == "" {
		return ErrEmptyOutput
	}

	candidates := []string{input}
	if fenced := extractFromMarkdown(input); fenced != "" {
		candidates = append(candidates, fenced)
	}
	if embedded := extractJSONFromText(input); embedded != "" {
		candidates = append(candidates, embedded)
	}

	for _, c := range candidates {
		if json.Unmarshal([]byte(c), target) == nil {
			return nil
		}
	}
	// repairs run on the narrowest candidate first
	for i := len(candidates) - 1; i >= 0; i-- {
		if json.Unmarshal([]byte(repairJSON(candidates[i])), target) == nil {
			return nil
		}
	}

	return fmt.Errorf("no JSON found in model output %q", truncate(input, 100))
}

// ParseAIObject decodes a JSON object out of model output
func ParseAIObject(input string) (map[string]any, error) {
	var out map[string]any
	if err := ParseAIJSON(input, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("model output %q is not a JSON object", truncate(input, 100))
	}
	return out, nil
}

// extractFromMarkdown returns the body of the first fenced code block that
// looks like JSON
func extractFromMarkdown(input string) string {
	if m := fencedJSON.FindStringSubmatch(input); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := fencedAny.FindStringSubmatch(input); len(m) > 1 {
		body := strings.TrimSpace(m[1])
		if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
			return body
		}
	}
	return ""
}

// extractJSONFromText finds the first balanced object, or failing that array
func extractJSONFromText(input string) string {
	if start := strings.IndexByte(input, '{'); start >= 0 {
		if s := extractBalanced(input[start:], '{', '}'); s != "" {
			return s
		}
	}
	if start := strings.IndexByte(input, '['); start >= 0 {
		if s := extractBalanced(input[start:], '[', ']'); s != "" {
			return s
		}
	}
	return ""
}

// extractBalanced returns the prefix of input up to the bracket closing its
// first character, skipping brackets inside string literals
func extractBalanced(input string, open, close byte) string {
	if input == "" || input[0] != open {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}
	return ""
}

// repairJSON fixes the mistakes models commonly make when writing JSON
func repairJSON(input string) string {
	s := controlChars.ReplaceAllString(input, "")
	s = trailingComma.ReplaceAllString(s, "$1")
	s = unquotedKey.ReplaceAllString(s, `$1"$2"$3`)
	s = fixSingleQuotes(s)
	return replaceBareWords(s, pythonLiterals)
}

// fixSingleQuotes turns single-quoted strings into double-quoted ones.
// Apostrophes inside double-quoted strings are left alone.
func fixSingleQuotes(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	inDouble, inSingle, escaped := false, false, false
	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"' && !inSingle:
			inDouble = !inDouble
		case ch == '"' && inSingle:
			b.WriteString(`\"`)
			continue
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteByte('"')
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// replaceBareWords rewrites identifiers outside string literals
func replaceBareWords(input string, words map[string]string) string {
	var b strings.Builder
	b.Grow(len(input))
	inString, escaped := false, false
	for i := 0; i < len(input); {
		ch := input[i]
		if inString {
			b.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			i++
			continue
		}
		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			i++
			continue
		}
		if isIdentByte(ch) {
			j := i
			for j < len(input) && isIdentByte(input[j]) {
				j++
			}
			word := input[i:j]
			if r, ok := words[word]; ok {
				word = r
			}
			b.WriteString(word)
			i = j
			continue
		}
		b.WriteByte(ch)
		i++
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
