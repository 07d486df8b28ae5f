// Package percurso is a conversational flow engine: it collects
// structured data through a declarative graph of guided questions,
// validating each answer, branching on prior ones and degrading
// gracefully when device location acquisition fails.
//
// The root package exposes the Engine facade and a line-based Runner.
// Graphs are built with pkg/flow, shipped scenarios live in pkg/quote,
// and persistence/transport adapters live under pkg/adapters.
package percurso
