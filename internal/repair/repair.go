// Package repair implements the text-level transformations applied to
// malformed JSON before re-validation. Each pass targets a single class of
// malformation and is a no-op on text that does not exhibit it.
package repair

import (
	"fmt"
	"strings"
)

// Pass is one self-contained repair transformation.
type Pass struct {
	Name  string
	Apply func(string) string
}

// Passes lists the repair passes in application order. BalanceBrackets closes
// braces before brackets; keep the order stable.
var Passes = []Pass{
	{Name: "close_strings", Apply: CloseStrings},
	{Name: "balance_brackets", Apply: BalanceBrackets},
	{Name: "escape_control_chars", Apply: EscapeControlChars},
	{Name: "escape_dangling_quotes", Apply: EscapeDanglingQuotes},
	{Name: "strip_trailing_commas", Apply: StripTrailingCommas},
}

// CloseStrings appends a closing quote when the text ends inside a string
// literal. An unescaped '"' toggles string state; the character after a '\'
// is always skipped. This is the most common truncation failure mode for
// generated JSON.
func CloseStrings(text string) string {
	inString := false
	escaped := false
	for _, r := range text {
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == '"' {
			inString = !inString
		}
	}
	if inString {
		if escaped {
			// A trailing lone backslash would escape the appended quote;
			// complete it as an escaped backslash first.
			return text + `\"`
		}
		return text + `"`
	}
	return text
}

// BalanceBrackets appends the closing runes needed to bring net-open braces
// and brackets to zero. Depth is tracked only outside string literals, using
// the same scan as CloseStrings, so braces and brackets that are string
// content never skew the counters. Braces always close before brackets.
func BalanceBrackets(text string) string {
	braces, brackets := 0, 0
	inString := false
	escaped := false
	for _, r := range text {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				braces++
			}
		case '}':
			if !inString {
				braces--
			}
		case '[':
			if !inString {
				brackets++
			}
		case ']':
			if !inString {
				brackets--
			}
		}
	}
	if braces <= 0 && brackets <= 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + max(braces, 0) + max(brackets, 0))
	b.WriteString(text)
	for i := 0; i < braces; i++ {
		b.WriteByte('}')
	}
	for i := 0; i < brackets; i++ {
		b.WriteByte(']')
	}
	return b.String()
}

// EscapeControlChars replaces raw control characters (C0 range and DEL)
// inside string literals with their escape sequences. Structural whitespace
// between tokens is left alone.
func EscapeControlChars(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	escaped := false
	changed := false
	for _, r := range text {
		switch {
		case escaped:
			escaped = false
			b.WriteRune(r)
		case inString && r == '\\':
			escaped = true
			b.WriteRune(r)
		case r == '"':
			inString = !inString
			b.WriteRune(r)
		case inString && isControl(r):
			b.WriteString(escapeControl(r))
			changed = true
		default:
			b.WriteRune(r)
		}
	}
	if !changed {
		return text
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

func escapeControl(r rune) string {
	switch r {
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	}
	return fmt.Sprintf(`\u%04x`, r)
}

// EscapeDanglingQuotes escapes a quote that appears inside a string literal
// but does not terminate it. A quote terminates the string when what follows,
// modulo whitespace, is a structural delimiter (',', ':', ']', '}') or the
// end of input. Best-effort: a content quote sitting directly before a
// delimiter still reads as a terminator.
func EscapeDanglingQuotes(text string) string {
	rs := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	escaped := false
	changed := false
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if !inString {
			if r == '"' {
				inString = true
			}
			b.WriteRune(r)
			continue
		}
		switch {
		case escaped:
			escaped = false
			b.WriteRune(r)
		case r == '\\':
			escaped = true
			b.WriteRune(r)
		case r == '"':
			if terminatesString(rs, i+1) {
				inString = false
				b.WriteRune(r)
			} else {
				changed = true
				b.WriteString(`\"`)
			}
		default:
			b.WriteRune(r)
		}
	}
	if !changed {
		return text
	}
	return b.String()
}

func terminatesString(rs []rune, i int) bool {
	for i < len(rs) && isSpace(rs[i]) {
		i++
	}
	if i >= len(rs) {
		return true
	}
	switch rs[i] {
	case ',', ':', ']', '}':
		return true
	}
	return false
}

// StripTrailingCommas removes a comma that directly precedes a closing ']' or
// '}' modulo whitespace. Commas inside string literals are left alone.
func StripTrailingCommas(text string) string {
	rs := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	escaped := false
	changed := false
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if inString {
			b.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		if r == '"' {
			inString = true
			b.WriteRune(r)
			continue
		}
		if r == ',' {
			j := i + 1
			for j < len(rs) && isSpace(rs[j]) {
				j++
			}
			if j < len(rs) && (rs[j] == ']' || rs[j] == '}') {
				changed = true
				continue
			}
		}
		b.WriteRune(r)
	}
	if !changed {
		return text
	}
	return b.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
