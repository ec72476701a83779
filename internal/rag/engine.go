// Package rag answers natural-language questions about a document by
// retrieving its most relevant chunks and handing them to a generative
// model.
package rag

import (
	"context"
	"fmt"
	"strings"

	"docuvault/internal/contextutil"
	"docuvault/internal/llm"
	"docuvault/internal/service"
	"docuvault/internal/storage"
	"docuvault/internal/vectorstore"
)

// topK is how many chunks are retrieved as context per question.
const topK = 5

// noMatchAnswer is returned when the document has no relevant chunks. It is
// a valid answer, not an error.
const noMatchAnswer = "No relevant information was found for this question. Try a different question or check the document."

// QuestionAnswerer generates an answer from a question and context passages.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string, passages []string) (string, error)
}

// Engine answers questions about stored documents.
type Engine interface {
	// Ask answers a question against one of the user's documents.
	Ask(ctx context.Context, userID, documentID int64, question string) (*Result, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	documents  storage.DocumentStore
	activities storage.ActivityStore
	embedder   llm.Embedder
	vectors    vectorstore.VectorStore
	answerer   QuestionAnswerer
	collection string
}

// NewEngine creates a RAG engine.
func NewEngine(
	documents storage.DocumentStore,
	activities storage.ActivityStore,
	embedder llm.Embedder,
	vectors vectorstore.VectorStore,
	answerer QuestionAnswerer,
	collection string,
) Engine {
	return &ragEngine{
		documents:  documents,
		activities: activities,
		embedder:   embedder,
		vectors:    vectors,
		answerer:   answerer,
		collection: collection,
	}
}

// Ask answers a question against one of the user's documents. The asking
// event is recorded before the answer is computed, independently of whether
// answering succeeds; a failed audit write never blocks the answer.
func (e *ragEngine) Ask(ctx context.Context, userID, documentID int64, question string) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question must not be empty", service.ErrInvalidArgument)
	}

	doc, err := e.documents.GetByIDAndUser(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	e.logQuestion(ctx, userID, documentID, question)

	vecs, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("%w: question produced no embedding", service.ErrEmbeddingFailed)
	}

	hits, err := e.vectors.Query(ctx, e.collection, vecs[0], topK, []int64{documentID})
	if err != nil {
		// An unreachable index degrades to the no-match answer rather than
		// failing the request.
		logger.WarnContext(ctx, "vector query failed, answering without context",
			"document_id", documentID, "error", err)
		hits = nil
	}

	result := &Result{
		Question:      question,
		DocumentID:    doc.ID,
		DocumentTitle: doc.Title,
		Sources:       []Source{},
	}

	if len(hits) == 0 {
		result.Answer = noMatchAnswer
		return result, nil
	}

	passages := make([]string, 0, len(hits))
	for _, hit := range hits {
		passages = append(passages, hit.Text)
		result.Sources = append(result.Sources, Source{
			ChunkIndex: chunkIndex(hit.Meta),
			Similarity: 1 - hit.Distance,
			ChunkText:  hit.Text,
		})
	}

	answer, err := e.answerer.Answer(ctx, question, passages)
	if err != nil {
		return nil, err
	}
	result.Answer = answer

	logger.InfoContext(ctx, "question answered",
		"document_id", documentID, "sources", len(result.Sources))
	return result, nil
}

// logQuestion records the asking event best-effort.
func (e *ragEngine) logQuestion(ctx context.Context, userID, documentID int64, question string) {
	logger := contextutil.LoggerFromContext(ctx)

	entry := &storage.ActivityRecord{
		UserID:       userID,
		DocumentID:   documentID,
		ActivityType: "question_ask",
		Description:  fmt.Sprintf("asked %q", question),
	}
	if err := e.activities.Insert(ctx, entry); err != nil {
		logger.WarnContext(ctx, "failed to record question activity",
			"document_id", documentID, "error", err)
	}
}

func chunkIndex(meta map[string]any) int {
	switch v := meta["chunk_index"].(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
