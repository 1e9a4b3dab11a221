package sqlite3

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type (
	TxFunc               = func(*sqlx.Tx) error
	TxSessionFactoryFunc = func() (*sqlx.DB, error)
	TxManager            = func(ctx context.Context, fn TxFunc) error
	TxOptions            = *sql.TxOptions
)

func WithTx(starterFn TxSessionFactoryFunc, txOpts TxOptions) TxManager {
	return func(ctx context.Context, fn TxFunc) error {
		db, err := starterFn()
		if err != nil {
			return fmt.Errorf("db connection error: %w", err)
		}

		tx, err := db.BeginTxx(ctx, txOpts)
		if err != nil {
			return fmt.Errorf("db begin transaction: %w", err)
		}
		defer func() {
			if p := recover(); p != nil {
				_ = tx.Rollback() // Ignore rollback error during panic
				panic(p)
			}
		}()

		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("db transaction error: %v, rollback error: %w", err, rbErr)
			}
			return fmt.Errorf("db transaction error: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("db commit transaction: %w", err)
		}

		return nil
	}
}
