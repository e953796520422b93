package repair

import "strings"

// ExtractCandidate strips markdown code fences and surrounding prose from
// text, returning the JSON candidate and whether anything was stripped. Text
// that already begins with a JSON value is only trimmed.
func ExtractCandidate(text string) (string, bool) {
	out := strings.TrimSpace(text)
	out = stripFences(out)
	if !startsWithValue(out) {
		if c, ok := firstContainer(out); ok {
			out = c
		}
	}
	return out, out != text
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func startsWithValue(s string) bool {
	if s == "" {
		return false
	}
	switch s[0] {
	case '{', '[', '"', '-', 't', 'f', 'n':
		return true
	}
	return s[0] >= '0' && s[0] <= '9'
}

// firstContainer returns the first balanced object or array in s, scanning
// with string-literal awareness. An unbalanced container runs to the end of s
// so the repair passes can close it.
func firstContainer(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return "", false
	}
	open := s[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return s[start:], true
}
