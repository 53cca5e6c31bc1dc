package piecetree

import (
	"errors"
	"fmt"

	"github.com/dshills/pieceengine/internal/diag"
)

// ErrInvalidEOL is returned by SetEOL for any value other than "\n" or "\r\n".
var ErrInvalidEOL = errors.New("piecetree: invalid EOL sequence")

// invariantViolation is panicked, never returned as an error, when the tree
// finds itself in a state that should be unreachable by construction: a
// negative aggregate in updateTreeMetadata, or a negative piece length
// after a CRLF repair in fixCRLF. These are programmer errors in the
// engine itself, not input errors, so they are not recoverable through the
// normal error-return path.
type invariantViolation struct {
	msg string
}

func (e invariantViolation) Error() string { return e.msg }

func panicInvariant(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	diag.L().Error(msg)
	panic(invariantViolation{msg: msg})
}
