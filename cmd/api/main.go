package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docuvault/internal/blob"
	"docuvault/internal/config"
	"docuvault/internal/extract"
	"docuvault/internal/http"
	"docuvault/internal/ingest"
	"docuvault/internal/llm"
	"docuvault/internal/rag"
	"docuvault/internal/storage"
	"docuvault/internal/vectorstore"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API manages uploaded documents and answers natural-language questions
// about them using retrieval-augmented generation.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: DocuVault API
//   description: |
//     Document management API with semantic search. Uploaded files are
//     extracted, chunked, embedded, and indexed so questions can be answered
//     from their content.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
//   - multipart/form-data
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	userRepo := storage.NewUserRepo(db)
	documentRepo := storage.NewDocumentRepo(db)
	activityRepo := storage.NewActivityRepo(db)

	// Initialize blob store (optionally encrypted at rest)
	blobs, err := blob.NewStore(cfg.StoragePath, cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}
	slog.Info("Blob store ready", "path", cfg.StoragePath, "encrypted", blobs.Encrypted())

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d", cfg.QdrantVectorSize)
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create LLM client and answerer (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, cfg.LLMRequestsPerSec)
	answerer := llm.NewAnswerer(llmClient)

	// Create ingestion pipeline
	pipeline := ingest.NewPipeline(
		documentRepo,
		blobs,
		extract.New(),
		ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
		vectorStore,
		answerer,
		cfg.QdrantCollection,
	)

	// Create RAG engine
	engine := rag.NewEngine(
		documentRepo,
		activityRepo,
		embedder,
		vectorStore,
		answerer,
		cfg.QdrantCollection,
	)
	slog.Info("RAG engine initialized")

	// Create router with dependencies
	deps := &http.Deps{
		Users:             userRepo,
		Documents:         documentRepo,
		Activities:        activityRepo,
		Blobs:             blobs,
		Vectors:           vectorStore,
		Pipeline:          pipeline,
		Engine:            engine,
		Collection:        cfg.QdrantCollection,
		MaxFileSize:       cfg.MaxFileSize,
		AllowedExtensions: cfg.AllowedExtensions,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
