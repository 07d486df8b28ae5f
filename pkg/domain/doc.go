// Package domain defines the core value types of a percurso flow:
// steps, transitions, choices and the session state accumulator.
//
// Everything here is plain data with no side effects. The engine in
// internal/runtime is the only component that mutates State, and it
// does so on copies, folding each user turn into the next value.
package domain
