package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrSectionNotFound   = errors.New("section not found")
	ErrProjectNotFound   = errors.New("project not found")

	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
	ErrSlugTaken     = errors.New("slug already taken")
)

const uniqueViolation = "23505"

// DB is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueErr translates a unique-constraint violation into the sentinel
// registered for that constraint. Other errors pass through unchanged.
func uniqueErr(err error, byConstraint map[string]error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if mapped, ok := byConstraint[pgErr.ConstraintName]; ok {
			return mapped
		}
	}
	return err
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}

// assignments accumulates "col = $n" pairs for partial updates.
type assignments struct {
	sets []string
	args []any
}

func (a *assignments) add(column string, value any) {
	a.args = append(a.args, value)
	a.sets = append(a.sets, fmt.Sprintf("%s = $%d", column, len(a.args)))
}

// build returns "UPDATE table SET ..., updated_at = NOW() WHERE <where>" with
// the where arguments appended after the assignments.
func (a *assignments) build(table string, returning string, where string, whereArgs ...any) (string, []any) {
	sets := append(append([]string{}, a.sets...), "updated_at = NOW()")
	args := append(append([]any{}, a.args...), whereArgs...)
	offset := len(a.args)
	for i := range whereArgs {
		where = strings.Replace(where, fmt.Sprintf("$w%d", i+1), fmt.Sprintf("$%d", offset+i+1), 1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING %s", table, strings.Join(sets, ", "), where, returning), args
}
