package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"docuvault/internal/contextutil"
	"docuvault/internal/service"
)

// Answerer produces grounded answers, summaries, and keywords from
// document text.
type Answerer struct {
	client *Client
}

// NewAnswerer creates an Answerer backed by the chat client.
func NewAnswerer(client *Client) *Answerer {
	return &Answerer{client: client}
}

// Answer responds to a question using only the supplied context passages.
// When the passages do not contain the answer, the model is instructed to
// say so explicitly instead of guessing.
func (a *Answerer) Answer(ctx context.Context, question string, passages []string) (string, error) {
	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", strings.Join(passages, "\n\n"), question)

	messages := []ChatMessage{
		{
			Role: "system",
			Content: "You answer questions strictly from the provided context. " +
				"If the context does not contain the answer, say explicitly that the information is not present in the documents. " +
				"Do not use outside knowledge.",
		},
		{Role: "user", Content: prompt},
	}

	answer, err := a.client.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrGenerationFailed, err)
	}
	return strings.TrimSpace(answer), nil
}

// Summarize produces a short summary of the text. Blank input yields an
// empty summary without calling the model.
func (a *Answerer) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	messages := []ChatMessage{
		{
			Role:    "system",
			Content: "Summarize the document in at most three sentences. Respond with the summary only.",
		},
		{Role: "user", Content: text},
	}

	summary, err := a.client.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrGenerationFailed, err)
	}
	return strings.TrimSpace(summary), nil
}

// ExtractKeywords asks the model for up to ten keywords as a JSON array.
// When the model is unavailable or returns something unparseable, a local
// frequency analysis supplies the keywords instead.
func (a *Answerer) ExtractKeywords(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	logger := contextutil.LoggerFromContext(ctx)

	messages := []ChatMessage{
		{
			Role: "system",
			Content: "Extract at most 10 keywords that best describe the document. " +
				`Respond with a JSON array of strings only, for example ["alpha","beta"].`,
		},
		{Role: "user", Content: text},
	}

	raw, err := a.client.Chat(ctx, messages)
	if err != nil {
		logger.WarnContext(ctx, "keyword generation unavailable, using frequency fallback", "error", err)
		return fallbackKeywords(text), nil
	}

	keywords, err := parseKeywordArray(raw)
	if err != nil {
		logger.WarnContext(ctx, "unparseable keyword response, using frequency fallback", "error", err)
		return fallbackKeywords(text), nil
	}
	return keywords, nil
}

// parseKeywordArray extracts a JSON string array from a model response,
// tolerating surrounding prose or code fences.
func parseKeywordArray(raw string) ([]string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var keywords []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &keywords); err != nil {
		return nil, fmt.Errorf("malformed keyword array: %w", err)
	}

	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	if len(cleaned) > 10 {
		cleaned = cleaned[:10]
	}
	return cleaned, nil
}

// stopwords are skipped by the frequency fallback.
var stopwords = map[string]struct{}{
	"ve": {}, "veya": {}, "ile": {}, "için": {}, "bu": {}, "bir": {},
	"da": {}, "de": {}, "mi": {}, "mu": {},
	"the": {}, "and": {}, "or": {}, "for": {}, "this": {}, "that": {},
	"with": {}, "in": {}, "on": {}, "at": {},
}

// fallbackKeywords picks the ten most frequent words longer than two
// characters, skipping stopwords. Ties keep first-occurrence order.
func fallbackKeywords(text string) []string {
	counts := make(map[string]int)
	order := make(map[string]int)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
	for i, word := range words {
		if len([]rune(word)) <= 2 {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		if _, seen := counts[word]; !seen {
			order[word] = i
		}
		counts[word]++
	}

	unique := make([]string, 0, len(counts))
	for word := range counts {
		unique = append(unique, word)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return order[unique[i]] < order[unique[j]]
	})

	if len(unique) > 10 {
		unique = unique[:10]
	}
	return unique
}

func isWordRune(r rune) bool {
	return r == '\'' || r == '-' ||
		('a' <= r && r <= 'z') || ('0' <= r && r <= '9') || r > 127
}
