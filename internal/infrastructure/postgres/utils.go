package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/almacen-fh/internal/domain"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx; los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeForeignKeyViolation  = "23503"
	codeInvalidText          = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"

	constraintFolio = "movimientos_folio_key"
	constraintStock = "productos_stock_kg_check"
)

// classify traduce errores de PostgreSQL a errores de dominio conservando la causa.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var sentinel error
	switch pgErr.Code {
	case codeUniqueViolation:
		sentinel = domain.ErrDuplicate
		if pgErr.ConstraintName == constraintFolio {
			sentinel = domain.ErrDuplicateFolio
		}
	case codeCheckViolation:
		sentinel = domain.ErrInvalidInput
		if pgErr.ConstraintName == constraintStock {
			sentinel = domain.ErrInsufficientStock
		}
	case codeForeignKeyViolation:
		sentinel = domain.ErrConflict
	case codeInvalidText:
		sentinel = domain.ErrInvalidInput
	case codeSerializationFailure, codeDeadlockDetected:
		sentinel = domain.ErrStockConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, sentinel, err)
}

// nullable convierte "" en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// where acumula condiciones y argumentos posicionales.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	s := " WHERE " + w.conds[0]
	for _, c := range w.conds[1:] {
		s += " AND " + c
	}
	return s
}

// page agrega LIMIT/OFFSET como argumentos.
func (w *where) page(limit, offset int) string {
	if limit <= 0 {
		limit = 50
	}
	w.args = append(w.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}
