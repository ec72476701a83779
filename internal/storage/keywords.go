package storage

import "strings"

// EncodeKeywords serializes keywords for the documents.keywords column as a
// comma-joined list. An empty list encodes to the empty string.
func EncodeKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}

// DecodeKeywords parses the documents.keywords column, dropping blanks.
func DecodeKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var keywords []string
	for _, kw := range strings.Split(raw, ",") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
