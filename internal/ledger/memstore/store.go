// Package memstore — ledger.Store в памяти для тестов и dev-режима.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
)

// Store хранит записи и балансы в памяти под одним мьютексом:
// коммит батча сериализуется целиком, как это делает внешний реестр.
type Store struct {
	mu       sync.RWMutex
	records  map[address.Address]ledger.Record
	balances map[address.Address]uint64
	clock    func() time.Time
}

type Option func(*Store)

// WithClock подменяет источник времени (для тестов истечения сроков).
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

func New(opts ...Option) *Store {
	s := &Store{
		records:  make(map[address.Address]ledger.Record),
		balances: make(map[address.Address]uint64),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, addr address.Address) (*ledger.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[addr]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	// копия, чтобы вызывающий не мутировал хранилище мимо коммита
	out := rec
	out.Data = append([]byte(nil), rec.Data...)
	return &out, nil
}

func (s *Store) Balance(_ context.Context, addr address.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[addr], nil
}

// Credit пополняет баланс аккаунта. В проде это делает внешний кошелёк,
// здесь — примитив для тестов и dev-наполнения.
func (s *Store) Credit(_ context.Context, addr address.Address, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[addr] += amount
	return nil
}

// Commit применяет батч атомарно: сперва полная валидация всех записей
// и переводов, затем применение. Любая ошибка оставляет хранилище
// нетронутым.
func (s *Store) Commit(_ context.Context, batch *ledger.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range batch.Writes {
		existing, ok := s.records[w.Record.Address]
		if w.Create {
			if ok {
				return ledger.ErrAlreadyExists
			}
			continue
		}
		if !ok {
			return ledger.ErrNotFound
		}
		if existing.Version != w.Record.Version {
			return ledger.ErrConflict
		}
	}

	// проверяем переводы на рабочей копии затронутых балансов
	working := make(map[address.Address]uint64)
	for _, t := range batch.Transfers {
		if _, ok := working[t.From]; !ok {
			working[t.From] = s.balances[t.From]
		}
		if _, ok := working[t.To]; !ok {
			working[t.To] = s.balances[t.To]
		}
		if working[t.From] < t.Amount {
			return ledger.ErrInsufficientFunds
		}
		working[t.From] -= t.Amount
		working[t.To] += t.Amount
	}

	for _, w := range batch.Writes {
		rec := w.Record
		rec.Data = append([]byte(nil), w.Record.Data...)
		rec.Version = w.Record.Version + 1
		s.records[rec.Address] = rec
	}
	for addr, amount := range working {
		s.balances[addr] = amount
	}
	return nil
}

func (s *Store) Now() time.Time {
	return s.clock()
}
