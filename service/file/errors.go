package file

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by what the caller can do about it.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: the request itself is wrong; do not retry unchanged.
	KindValidation
	// KindNotFound: the upload session or file is unknown or expired.
	KindNotFound
	// KindUpstream: a dependency failed; the call may be retried.
	KindUpstream
	// KindInconsistent: stored state contradicts itself.
	KindInconsistent
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindInconsistent:
		return "inconsistent"
	default:
		return "unknown"
	}
}

var (
	ErrFileTooLarge      = errors.New("file size exceeds limit")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrSessionNotFound   = errors.New("upload session not found or expired")
	ErrFileRecordMissing = errors.New("file record missing for upload session")
	ErrNoParts           = errors.New("no uploaded parts")
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func validationError(op, format string, args ...any) *Error {
	return newError(KindValidation, op, fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...)))
}

// KindOf reports the Kind of err, or KindUnknown for errors not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsRetryable(err error) bool {
	return KindOf(err) == KindUpstream
}
