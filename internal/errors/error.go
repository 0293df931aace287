package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBoard      = errors.New("invalid board")
	ErrInvalidColor      = errors.New("color must be 1 (black) or 2 (white)")
	ErrUnsupportedWidth  = errors.New("unsupported board width")
	ErrGameNotFound      = errors.New("game not found")
	ErrMissingCredential = errors.New("missing llm credentials")
	ErrUnknownProvider   = errors.New("unknown llm provider")
	ErrInternal          = errors.New("internal error")
)

// Kind tells a caller why no move decision was produced.
type Kind string

const (
	KindTransport        Kind = "transport"
	KindContentPolicy    Kind = "content_policy"
	KindStructuredDecode Kind = "structured_decode"
	KindUnparseable      Kind = "unparseable"
	KindInvalidInput     Kind = "invalid_input"
)

type Failure struct {
	Kind Kind
	Err  error
	// Raw holds the model reply that could not be used, if any.
	Raw string
}

func NewFailure(kind Kind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Retryable is true for content-policy rejections: the same position usually
// goes through on a second attempt.
func (f *Failure) Retryable() bool {
	return f.Kind == KindContentPolicy
}

// KindOf returns the failure kind carried by err, or KindTransport for
// errors that carry none.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindTransport
}

func IsRetryable(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Retryable()
}
