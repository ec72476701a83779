package rag

// Source is one retrieved chunk backing an answer.
type Source struct {
	ChunkIndex int     `json:"chunk_index"`
	Similarity float32 `json:"similarity"`
	ChunkText  string  `json:"chunk_text"`
}

// Result is the outcome of asking a question against a document.
type Result struct {
	Question      string   `json:"question"`
	Answer        string   `json:"answer"`
	DocumentID    int64    `json:"document_id"`
	DocumentTitle string   `json:"document_title"`
	Sources       []Source `json:"sources"`
}
