// Package pgstore — реализация ledger.Store поверх PostgreSQL.
// Записи и балансы живут в двух таблицах; батч фиксируется одной
// транзакцией с блокировкой строк FOR UPDATE.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
)

type Store struct {
	db    *sqlx.DB
	clock func() time.Time
}

type Option func(*Store)

// WithClock подменяет источник времени, используется в тестах.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, addr address.Address) (*ledger.Record, error) {
	var rec ledger.Record
	query := `SELECT address, kind, data, version, bump FROM ledger_records WHERE address = $1`
	if err := s.db.GetContext(ctx, &rec, query, addr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, fmt.Errorf("pgstore: не удалось прочитать запись %s: %w", addr, err)
	}
	return &rec, nil
}

func (s *Store) Balance(ctx context.Context, addr address.Address) (uint64, error) {
	var amount uint64
	query := `SELECT amount FROM ledger_balances WHERE address = $1`
	if err := s.db.GetContext(ctx, &amount, query, addr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("pgstore: не удалось прочитать баланс %s: %w", addr, err)
	}
	return amount, nil
}

// Credit пополняет баланс аккаунта, создаёт строку если её нет.
func (s *Store) Credit(ctx context.Context, addr address.Address, amount uint64) error {
	query := `
		INSERT INTO ledger_balances (address, amount)
		VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET amount = ledger_balances.amount + $2, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, addr, amount); err != nil {
		return fmt.Errorf("pgstore: не удалось пополнить баланс %s: %w", addr, err)
	}
	return nil
}

// Commit применяет батч атомарно: сперва блокирует и валидирует все
// записи и балансы-источники, затем пишет. Любая ошибка откатывает всё.
func (s *Store) Commit(ctx context.Context, batch *ledger.Batch) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgstore: не удалось начать транзакцию: %w", err)
	}
	defer tx.Rollback()

	for _, w := range batch.Writes {
		if err := s.validateWrite(ctx, tx, w); err != nil {
			return err
		}
	}
	if err := s.validateTransfers(ctx, tx, batch.Transfers); err != nil {
		return err
	}

	for _, w := range batch.Writes {
		if err := s.applyWrite(ctx, tx, w); err != nil {
			return err
		}
	}
	for _, t := range batch.Transfers {
		if err := s.applyTransfer(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgstore: не удалось зафиксировать батч: %w", err)
	}
	return nil
}

func (s *Store) Now() time.Time {
	return s.clock()
}

func (s *Store) validateWrite(ctx context.Context, tx *sqlx.Tx, w ledger.Write) error {
	var version uint64
	err := tx.GetContext(ctx, &version,
		`SELECT version FROM ledger_records WHERE address = $1 FOR UPDATE`, w.Record.Address)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if !w.Create {
			return ledger.ErrNotFound
		}
	case err != nil:
		return fmt.Errorf("pgstore: не удалось заблокировать запись %s: %w", w.Record.Address, err)
	default:
		if w.Create {
			return ledger.ErrAlreadyExists
		}
		if version != w.Record.Version {
			return ledger.ErrConflict
		}
	}
	return nil
}

// validateTransfers блокирует балансы-источники и проверяет покрытие
// с учётом всех переводов батча с одного адреса.
func (s *Store) validateTransfers(ctx context.Context, tx *sqlx.Tx, transfers []ledger.Transfer) error {
	need := make(map[address.Address]uint64)
	for _, t := range transfers {
		need[t.From] += t.Amount
	}
	for from, total := range need {
		var amount uint64
		err := tx.GetContext(ctx, &amount,
			`SELECT amount FROM ledger_balances WHERE address = $1 FOR UPDATE`, from)
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.ErrInsufficientFunds
		}
		if err != nil {
			return fmt.Errorf("pgstore: не удалось заблокировать баланс %s: %w", from, err)
		}
		if amount < total {
			return ledger.ErrInsufficientFunds
		}
	}
	return nil
}

func (s *Store) applyWrite(ctx context.Context, tx *sqlx.Tx, w ledger.Write) error {
	if w.Create {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ledger_records (address, kind, data, version, bump)
			VALUES ($1, $2, $3, 1, $4)
		`, w.Record.Address, w.Record.Kind, w.Record.Data, w.Record.Bump)
		if err != nil {
			return fmt.Errorf("pgstore: не удалось создать запись %s: %w", w.Record.Address, err)
		}
		return nil
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE ledger_records SET data = $2, version = version + 1, updated_at = NOW()
		WHERE address = $1
	`, w.Record.Address, w.Record.Data)
	if err != nil {
		return fmt.Errorf("pgstore: не удалось обновить запись %s: %w", w.Record.Address, err)
	}
	return nil
}

func (s *Store) applyTransfer(ctx context.Context, tx *sqlx.Tx, t ledger.Transfer) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE ledger_balances SET amount = amount - $2, updated_at = NOW()
		WHERE address = $1
	`, t.From, t.Amount)
	if err != nil {
		return fmt.Errorf("pgstore: не удалось списать с %s: %w", t.From, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_balances (address, amount)
		VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET amount = ledger_balances.amount + $2, updated_at = NOW()
	`, t.To, t.Amount)
	if err != nil {
		return fmt.Errorf("pgstore: не удалось зачислить на %s: %w", t.To, err)
	}
	return nil
}
