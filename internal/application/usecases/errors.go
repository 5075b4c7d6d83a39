package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind classifica os erros devolvidos pelos casos de uso
type Kind string

const (
	KindInvalidStateTransition      Kind = "InvalidStateTransition"
	KindOrderConflict               Kind = "OrderConflict"
	KindMissingRequiredAnswer       Kind = "MissingRequiredAnswer"
	KindDuplicateResponseNotAllowed Kind = "DuplicateResponseNotAllowed"
	KindResponseLimitReached        Kind = "ResponseLimitReached"
	KindNotFound                    Kind = "NotFound"
	KindStoreTimeout                Kind = "StoreTimeout"
	KindValidation                  Kind = "ValidationError"
	KindInternal                    Kind = "Internal"
)

// Error é o erro de domínio devolvido por todos os casos de uso
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is faz errors.Is(err, ErrNotFound) casar por tipo de erro
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidStateTransition      = &Error{Kind: KindInvalidStateTransition}
	ErrOrderConflict               = &Error{Kind: KindOrderConflict}
	ErrMissingRequiredAnswer       = &Error{Kind: KindMissingRequiredAnswer}
	ErrDuplicateResponseNotAllowed = &Error{Kind: KindDuplicateResponseNotAllowed}
	ErrResponseLimitReached        = &Error{Kind: KindResponseLimitReached}
	ErrNotFound                    = &Error{Kind: KindNotFound}
	ErrStoreTimeout                = &Error{Kind: KindStoreTimeout}
	ErrValidation                  = &Error{Kind: KindValidation}
)

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

// KindOf devolve o tipo do erro, ou KindInternal quando não é um *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// translate converte erros do banco e do contexto em erros de domínio
func translate(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindStoreTimeout, Message: "tempo limite do banco excedido", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "57014":
			return &Error{Kind: KindStoreTimeout, Message: "consulta cancelada por tempo limite", Err: err}
		case "55P03", "40001", "23505":
			return &Error{Kind: KindOrderConflict, Message: "operação concorrente em andamento", Err: err}
		}
	}

	switch {
	case errors.Is(err, repositories.ErrVersionConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindOrderConflict, Message: "ordenação alterada por outra operação", Err: err}
	case errors.Is(err, repositories.ErrStaleState):
		return &Error{Kind: KindInvalidStateTransition, Message: "estado alterado por outra operação", Err: err}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Message: "registro não encontrado", Err: err}
	}

	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
