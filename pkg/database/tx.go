package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrNoScope is returned when a database operation runs without a scope in its context.
var ErrNoScope = errors.New("no database scope in context")

// ReadOnly is the transaction mode used by query-only service operations.
var ReadOnly = pgx.TxOptions{AccessMode: pgx.ReadOnly}

// ReadWrite is the transaction mode used by mutating service operations.
var ReadWrite = pgx.TxOptions{AccessMode: pgx.ReadWrite}

// TxRunner runs a unit of work inside a transaction on the scope's connection.
type TxRunner interface {
	// RunInTx begins a transaction, calls fn with a context carrying it, and
	// commits when fn returns nil. Any error rolls the transaction back.
	// A call made while a transaction is already open joins it.
	RunInTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) error
}

type txRunner struct{}

// NewTxRunner returns the pgx-backed TxRunner.
func NewTxRunner() TxRunner {
	return &txRunner{}
}

var _ TxRunner = (*txRunner)(nil)

func (r *txRunner) RunInTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) (err error) {
	scope, ok := GetScope(ctx)
	if !ok {
		return ErrNoScope
	}
	if scope.InTx() {
		return fn(ctx)
	}

	tx, err := scope.Conn.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	txCtx := SetScope(ctx, &Scope{Conn: scope.Conn, tx: tx})
	if err = fn(txCtx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
