package wikitext

import "fmt"

// Pos is a byte offset into the logical input stream. It is attached to
// every error the parser raises so callers can report "file:offset" style
// diagnostics.
type Pos int

// Error is the parser's position-carrying error type (§7).
type Error struct {
	Pos     Pos
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Pos, e.Message)
}

// StackOverflowError is raised when the parse stack exceeds maxdepth. It is
// the only error that can escape the core's public API (§7): the caller
// (typically the XML-dump driver) logs it, skips the page, and continues.
type StackOverflowError struct {
	Pos     Pos
	MaxDepth int
}

func (e StackOverflowError) Error() string {
	return fmt.Sprintf("offset %d: parse stack exceeded maxdepth %d", e.Pos, e.MaxDepth)
}

// InvalidTokenDiagnostic describes a token a parse state did not understand.
// It is never fatal: the token is still appended verbatim as a child so
// nothing is lost (§7); this type only carries the diagnostic for callers
// who set Parser.Diagnostic.
type InvalidTokenDiagnostic struct {
	Pos   Pos
	State string
	Token Token
}

func (d InvalidTokenDiagnostic) String() string {
	return fmt.Sprintf("offset %d: state %s received unexpected token %s", d.Pos, d.State, d.Token.Type)
}
