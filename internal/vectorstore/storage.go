package vectorstore

import "moviebot/internal/domain"

// Storage holds row-aligned document vectors and supports similarity search.
type Storage = domain.VectorStore
