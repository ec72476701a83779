package rag

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"docuvault/internal/service"
	"docuvault/internal/storage"
	"docuvault/internal/vectorstore"
	"docuvault/internal/vectorstore/mocks"
)

type fakeDocuments struct {
	storage.DocumentStore
	doc *storage.DocumentRecord
}

func (f *fakeDocuments) GetByIDAndUser(ctx context.Context, id, userID int64) (*storage.DocumentRecord, error) {
	if f.doc == nil || f.doc.ID != id || f.doc.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return f.doc, nil
}

type fakeActivities struct {
	storage.ActivityStore
	entries []*storage.ActivityRecord
	err     error
}

func (f *fakeActivities) Insert(ctx context.Context, entry *storage.ActivityRecord) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return [][]float32{f.vec}, nil
}

type fakeAnswerer struct {
	answer   string
	err      error
	passages []string
}

func (f *fakeAnswerer) Answer(ctx context.Context, question string, passages []string) (string, error) {
	f.passages = passages
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func testDoc() *storage.DocumentRecord {
	return &storage.DocumentRecord{ID: 10, UserID: 1, Title: "handbook"}
}

func TestAskHappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := mocks.NewMockVectorStore(ctrl)
	vectors.EXPECT().
		Query(gomock.Any(), "documents", gomock.Any(), 5, []int64{10}).
		Return([]vectorstore.SearchResult{
			{Text: "first chunk", Distance: 0.2, Meta: map[string]any{"chunk_index": int64(0)}},
			{Text: "second chunk", Distance: 0.4, Meta: map[string]any{"chunk_index": int64(3)}},
		}, nil)

	activities := &fakeActivities{}
	answerer := &fakeAnswerer{answer: "It is covered in the handbook."}
	engine := NewEngine(&fakeDocuments{doc: testDoc()}, activities, &fakeEmbedder{vec: []float32{1, 0}}, vectors, answerer, "documents")

	result, err := engine.Ask(context.Background(), 1, 10, "what about vacations?")
	if err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}

	if result.Answer != "It is covered in the handbook." {
		t.Errorf("Answer = %q", result.Answer)
	}
	if result.DocumentTitle != "handbook" {
		t.Errorf("DocumentTitle = %q", result.DocumentTitle)
	}
	if len(result.Sources) != 2 {
		t.Fatalf("Sources len = %d, want 2", len(result.Sources))
	}
	if result.Sources[0].ChunkIndex != 0 || result.Sources[1].ChunkIndex != 3 {
		t.Errorf("chunk indexes = %d, %d", result.Sources[0].ChunkIndex, result.Sources[1].ChunkIndex)
	}
	if got := result.Sources[0].Similarity; got < 0.79 || got > 0.81 {
		t.Errorf("Similarity = %v, want 1 - distance", got)
	}
	if len(answerer.passages) != 2 || answerer.passages[0] != "first chunk" {
		t.Errorf("answerer passages = %v", answerer.passages)
	}
	if len(activities.entries) != 1 || activities.entries[0].ActivityType != "question_ask" {
		t.Errorf("activity entries = %+v", activities.entries)
	}
}

func TestAskWrongOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := mocks.NewMockVectorStore(ctrl)
	embedder := &fakeEmbedder{vec: []float32{1}}
	engine := NewEngine(&fakeDocuments{doc: testDoc()}, &fakeActivities{}, embedder, vectors, &fakeAnswerer{}, "documents")

	_, err := engine.Ask(context.Background(), 99, 10, "who am I?")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Ask() error = %v, want ErrNotFound", err)
	}
	if embedder.calls != 0 {
		t.Error("no embedding should happen for a foreign document")
	}
}

func TestAskNoMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := mocks.NewMockVectorStore(ctrl)
	vectors.EXPECT().
		Query(gomock.Any(), "documents", gomock.Any(), 5, []int64{10}).
		Return(nil, nil)

	answerer := &fakeAnswerer{answer: "should not be used"}
	engine := NewEngine(&fakeDocuments{doc: testDoc()}, &fakeActivities{}, &fakeEmbedder{vec: []float32{1}}, vectors, answerer, "documents")

	result, err := engine.Ask(context.Background(), 1, 10, "anything relevant?")
	if err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}
	if result.Answer != noMatchAnswer {
		t.Errorf("Answer = %q, want the fixed no-match answer", result.Answer)
	}
	if len(result.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", result.Sources)
	}
	if answerer.passages != nil {
		t.Error("answerer should not be called without matches")
	}
}

func TestAskQueryFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := mocks.NewMockVectorStore(ctrl)
	vectors.EXPECT().
		Query(gomock.Any(), "documents", gomock.Any(), 5, []int64{10}).
		Return(nil, service.ErrStoreUnavailable)

	engine := NewEngine(&fakeDocuments{doc: testDoc()}, &fakeActivities{}, &fakeEmbedder{vec: []float32{1}}, vectors, &fakeAnswerer{}, "documents")

	result, err := engine.Ask(context.Background(), 1, 10, "is the index up?")
	if err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}
	if result.Answer != noMatchAnswer {
		t.Errorf("Answer = %q, want the fixed no-match answer", result.Answer)
	}
}

func TestAskActivityFailureDoesNotBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := mocks.NewMockVectorStore(ctrl)
	vectors.EXPECT().
		Query(gomock.Any(), "documents", gomock.Any(), 5, []int64{10}).
		Return([]vectorstore.SearchResult{
			{Text: "chunk", Distance: 0.1, Meta: map[string]any{"chunk_index": int64(0)}},
		}, nil)

	activities := &fakeActivities{err: errors.New("audit table locked")}
	engine := NewEngine(&fakeDocuments{doc: testDoc()}, activities, &fakeEmbedder{vec: []float32{1}}, vectors, &fakeAnswerer{answer: "still answered"}, "documents")

	result, err := engine.Ask(context.Background(), 1, 10, "does logging block?")
	if err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}
	if result.Answer != "still answered" {
		t.Errorf("Answer = %q", result.Answer)
	}
}

func TestAskBlankQuestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := NewEngine(&fakeDocuments{doc: testDoc()}, &fakeActivities{}, &fakeEmbedder{vec: []float32{1}}, mocks.NewMockVectorStore(ctrl), &fakeAnswerer{}, "documents")

	_, err := engine.Ask(context.Background(), 1, 10, "   ")
	if !errors.Is(err, service.ErrInvalidArgument) {
		t.Errorf("Ask() error = %v, want ErrInvalidArgument", err)
	}
}

func TestAskGenerationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := mocks.NewMockVectorStore(ctrl)
	vectors.EXPECT().
		Query(gomock.Any(), "documents", gomock.Any(), 5, []int64{10}).
		Return([]vectorstore.SearchResult{
			{Text: "chunk", Distance: 0.1, Meta: map[string]any{"chunk_index": int64(0)}},
		}, nil)

	answerer := &fakeAnswerer{err: service.ErrGenerationFailed}
	engine := NewEngine(&fakeDocuments{doc: testDoc()}, &fakeActivities{}, &fakeEmbedder{vec: []float32{1}}, vectors, answerer, "documents")

	_, err := engine.Ask(context.Background(), 1, 10, "will this fail?")
	if !errors.Is(err, service.ErrGenerationFailed) {
		t.Errorf("Ask() error = %v, want ErrGenerationFailed", err)
	}
}
