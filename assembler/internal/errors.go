package internal

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure reported by the assembler wraps exactly one of them, so callers
// can test the kind with errors.Is.
var (
	ErrFileOpen              = errors.New("file open failure")
	ErrInvalidOpcode         = errors.New("invalid opcode")
	ErrMalformedConstant     = errors.New("malformed constant")
	ErrInvalidCount          = errors.New("invalid count")
	ErrUndefinedSymbol       = errors.New("undefined symbol")
	ErrInvalidAddress        = errors.New("invalid address")
	ErrMalformedIntermediate = errors.New("malformed intermediate line")
)

// AsmError is a failure on one line. Line counts source lines in pass 1 and intermediate
// stream lines in pass 2.
type AsmError struct {
	Kind error
	Pass int
	Line int
	Msg  string
}

func (e *AsmError) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
	if e.Pass == 2 {
		return fmt.Sprintf("%v at intermediate line %d: %s", e.Kind, e.Line, e.Msg)
	}
	return fmt.Sprintf("%v at line %d: %s", e.Kind, e.Line, e.Msg)
}

func (e *AsmError) Unwrap() error {
	return e.Kind
}

func makeErr(kind error, format string, args ...interface{}) *AsmError {
	return &AsmError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// atLine stamps err with the pass and line it was raised on, unless it already carries one.
func atLine(err error, pass, line int) error {
	var asmErr *AsmError
	if !errors.As(err, &asmErr) {
		return &AsmError{Kind: err, Pass: pass, Line: line, Msg: err.Error()}
	}
	if asmErr.Line == 0 {
		asmErr.Pass = pass
		asmErr.Line = line
	}
	return asmErr
}
