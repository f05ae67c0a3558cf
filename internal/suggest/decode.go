package suggest

import (
	"bytes"
	"encoding/json"
)

// DecodeCandidates parses a backend candidate payload. The expected
// encoding is a JSON array of strings; entries of any other type are
// skipped individually, and a payload that is absent, malformed, or not
// an array decodes to an empty list. Decode failures never become errors
// in the dispatch path.
func DecodeCandidates(data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		// Unmarshal into a string leaves the target untouched on a JSON
		// null without reporting an error, so nulls must be rejected by
		// token kind, not by decode failure.
		token := bytes.TrimSpace(entry)
		if len(token) == 0 || token[0] != '"' {
			continue
		}
		var s string
		if err := json.Unmarshal(token, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}
