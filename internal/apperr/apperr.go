// Package apperr определяет типизированные бизнес-ошибки ядра.
// Каждый вид однозначно отображается во внешний код ответа.
package apperr

import (
	"errors"
	"fmt"
)

// Kind вид бизнес-ошибки
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidState
	KindForbidden
	KindBadRequest
)

// String возвращает стабильный внешний код вида
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	}
	return "unknown"
}

// Error бизнес-ошибка с видом и сообщением
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создаёт ошибку заданного вида
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf создаёт ошибку с форматированием сообщения
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap оборачивает err, сохраняя её в цепочке
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf извлекает вид ошибки из цепочки; KindUnknown если её там нет
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind проверяет, что в цепочке err есть бизнес-ошибка заданного вида
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
