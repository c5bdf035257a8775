// Package reasoning defines the boundary between the application core
// and the external reasoning service (an LLM endpoint that returns
// structured JSON recommendations). It holds the client interface, the
// typed error taxonomy, and the per-operation response schemas with
// their validation rules. Concrete clients live under
// internal/platform/openrouter and internal/platform/gemini.
//
// Every failure crossing this boundary is a typed error, never a panic,
// and the orchestrator converts all of them into deterministic local
// fallbacks. Nothing dynamically typed flows past the parse functions.
package reasoning
