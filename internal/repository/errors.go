package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Foreign key constraint names as generated by Postgres for the tables in migrations/.
const (
	ConstraintTaskProject   = "tasks_project_id_fkey"
	ConstraintTaskAssignee  = "tasks_assignee_id_fkey"
	ConstraintCommentTask   = "comments_task_id_fkey"
	ConstraintCommentAuthor = "comments_author_id_fkey"
)

var (
	ErrDuplicate        = errors.New("duplicate key")
	ErrMissingReference = errors.New("referenced row does not exist")
)

// ReferenceError reports an insert or update that pointed at a row which no longer exists.
type ReferenceError struct {
	Constraint string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s (%s)", ErrMissingReference.Error(), e.Constraint)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrMissingReference
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return &ReferenceError{Constraint: pgErr.ConstraintName}
	default:
		return err
	}
}
