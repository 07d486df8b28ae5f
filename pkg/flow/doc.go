// Package flow holds the static step graphs: construction (Builder),
// structural validation and the named registry. Graphs are data; the
// engine in internal/runtime walks them.
package flow
