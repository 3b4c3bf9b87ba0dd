package xtream

import "github.com/mmcdole/kanal/internal/domain"

// Kind tags the outcome of a catalog request
type Kind string

const (
	KindOK            Kind = "ok"
	KindBadData       Kind = "bad-data"
	KindCannotConnect Kind = "cannot-connect"
	KindTimeout       Kind = "timeout"
	KindUnauthorized  Kind = "unauthorized"
	KindUnknown       Kind = "unknown"
)

// Result is returned by every catalog request instead of an error.
// Data is only meaningful when Kind is KindOK.
type Result[T any] struct {
	Kind      Kind
	Data      T
	Temporary bool
	Status    int // HTTP status, 0 when no response was received
}

func ok[T any](data T) Result[T] {
	return Result[T]{Kind: KindOK, Data: data, Status: 200}
}

func failed[T any](kind Kind, temporary bool, status int) Result[T] {
	return Result[T]{Kind: kind, Temporary: temporary, Status: status}
}

// OK reports whether the request succeeded
func (r Result[T]) OK() bool { return r.Kind == KindOK }

// Err maps the tag to a domain error, nil on success
func (r Result[T]) Err() error {
	switch r.Kind {
	case KindOK:
		return nil
	case KindBadData:
		return domain.ErrBadData
	case KindCannotConnect:
		return domain.ErrServerOffline
	case KindTimeout:
		return domain.ErrTimeout
	case KindUnauthorized:
		return domain.ErrAuthFailed
	default:
		return domain.ErrUnknown
	}
}
