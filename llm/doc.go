/*
Package llm defines the chat model contract Resume-RAG consumes.

It declares interfaces only and ships no concrete provider:

  - ChatModel  — takes ordered types.Message values and returns one reply
  - ChatOption — request parameters: model, temperature, a JSON Schema for structured output
  - Middleware — wraps a ChatModel (logging, timeouts, rate limiting, request validation)

Errors returned by a provider are opaque to the orchestration core and are
propagated unchanged.
*/
package llm
