package extract

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"docuvault/internal/service"
)

// fallbackEncodings are tried in order when a text file is not valid UTF-8.
// ISO-8859-1 (Latin-1) assigns a codepoint to every byte, so it decodes any
// input and the later entries act as safety nets rather than live fallbacks.
var fallbackEncodings = []encoding.Encoding{
	charmap.ISO8859_1,
	charmap.Windows1252,
	charmap.ISO8859_15,
}

// extractText decodes a plain-text file. UTF-8 is tried first; otherwise the
// fixed fallback encodings are tried in order, and ErrUnsupportedEncoding is
// returned if none of them produce a decodable result.
func extractText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, enc := range fallbackEncodings {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		return string(decoded), nil
	}

	return "", fmt.Errorf("%w: could not decode file with any supported encoding", service.ErrUnsupportedEncoding)
}
