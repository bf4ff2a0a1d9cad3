package content

import "context"

// MemoryIndex serves a fixed set of documents
type MemoryIndex struct {
	docs []Document
}

// NewMemoryIndex creates an index over docs. The slice is copied.
func NewMemoryIndex(docs ...Document) *MemoryIndex {
	return &MemoryIndex{docs: append([]Document(nil), docs...)}
}

// Documents returns a copy of the documents in insertion order
func (m *MemoryIndex) Documents(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Document(nil), m.docs...), nil
}
