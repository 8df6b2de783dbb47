// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Connector: Enumerates raw documents from a document source
//   - Normaliser: Extracts plain text from raw documents
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - PostProcessor: Turns document text into chunks
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - VectorIndex: Exact nearest-neighbour search over IndexedChunks
//   - LLMService: Text completion for a formatted prompt
//   - ConfigStore: Application configuration
//   - PromptStore: User-editable prompt text
//
// Embedding and LLM implementations are chosen by configuration; the core
// only ever sees these capability interfaces.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
