/*
Package rag defines the vector store contract used for retrieval-augmented
generation.

# Core types

  - VectorStore[M] — Add / AddWithMetadata / Lookup; IDs are store-generated UUIDs
  - Document[M]    — content plus typed metadata
  - FilterFunc[M]  — predicate evaluated on each candidate before it is ranked

Metadata is encoded with an injected codec.JSONCodec[M] when stored and
decoded with the same codec during Lookup, before it reaches the filter.

MemoryStore is an in-memory implementation ranked by cosine similarity, for
tests and small corpora.
*/
package rag
