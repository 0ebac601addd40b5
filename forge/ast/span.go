// Package ast defines the Staves abstract syntax tree: documents,
// staves, visual elements, style definitions, and the auditory/haptic
// (tone/pulse) and safety (TARA) definitions, grounded on the original
// runemate-forge ast.rs.
package ast

import "fmt"

// Span locates a token or node in the source text.
type Span struct {
	Line uint32
	Col  uint32
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Col)
}
