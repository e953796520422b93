package jsonmend

import "unicode/utf8"

// EnvelopeError is the fixed error marker carried by the fallback envelope.
const EnvelopeError = "invalid_json"

// DefaultOriginalLimit bounds the original-text excerpt stored in an Envelope.
const DefaultOriginalLimit = 500

// Envelope is the synthetic document returned when neither repair nor prefix
// recovery produces parseable JSON. It is itself always valid JSON once
// encoded.
type Envelope struct {
	Error    string `json:"error"`
	Original string `json:"original"`
}

// NewEnvelope builds the fallback document for raw. The original excerpt is
// truncated to limit characters (DefaultOriginalLimit when limit <= 0)
// without splitting a UTF-8 sequence.
func NewEnvelope(raw string, limit int) Envelope {
	if limit <= 0 {
		limit = DefaultOriginalLimit
	}
	return Envelope{Error: EnvelopeError, Original: truncateRunes(raw, limit)}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
