package format

import "errors"

// Sentinel errors, one per corruption class so callers can tell them apart
// with errors.Is. Structural and syntax errors mean the buffer cannot be
// parsed at all; semantic errors mean the header parsed but is internally
// inconsistent. None of them are recoverable within a single call.
var (
	// Structural.
	ErrBufferTooShort = errors.New("buffer too short")
	ErrHeaderTooLarge = errors.New("header exceeds maximum size")

	// Header syntax.
	ErrMalformedHeader = errors.New("malformed header")
	ErrInvalidUTF8     = errors.New("header is not valid UTF-8")

	// Header semantics.
	ErrUnknownDtype         = errors.New("unknown dtype")
	ErrMissingField         = errors.New("missing required header field")
	ErrDuplicateName        = errors.New("duplicate tensor name")
	ErrInvalidOffset        = errors.New("invalid data offsets")
	ErrOffsetOverlapOrGap   = errors.New("tensor offsets overlap or leave a gap")
	ErrTensorSizeMismatch   = errors.New("tensor size does not match shape and dtype")
	ErrInvalidShape         = errors.New("invalid tensor shape")
	ErrInvalidShapeForDtype = errors.New("shape is not packable for dtype")
)
