package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

// translate maps a backend failure to the engine's error taxonomy. Unique and
// foreign key violations are integrity conflicts, anything else is an
// engine error.
func translate(table string, err error) error {
	if err == nil {
		return nil
	}
	var ee *domain.EntityError
	if errors.As(err, &ee) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation", "foreign_key_violation":
			return &domain.EntityError{
				Kind:       domain.ErrIntegrityConflict,
				Entity:     table,
				Constraint: pqErr.Constraint,
				Err:        err,
			}
		}
	}
	return &domain.EntityError{Kind: domain.ErrEngine, Entity: table, Msg: "unknown error occurred", Err: err}
}

func schemaError(table, format string, args ...any) error {
	return &domain.EntityError{Kind: domain.ErrSchema, Entity: table, Msg: fmt.Sprintf(format, args...)}
}

func notFound(table, column string, id any) error {
	return &domain.EntityError{Kind: domain.ErrNotFound, Entity: table, Msg: fmt.Sprintf("%s=%v not found", column, id)}
}
