package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/ledger/memstore"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
)

type payload struct {
	Value string `json:"value"`
}

func mustRecord(t *testing.T, addr address.Address, v any) ledger.Record {
	t.Helper()
	rec, err := ledger.NewRecord(address.KindProfile, addr, 0, v)
	if err != nil {
		t.Fatalf("не удалось создать запись: %v", err)
	}
	return rec
}

func TestCommit_CreateAndGet(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	rec := mustRecord(t, "addr-1", payload{Value: "a"})
	batch := &ledger.Batch{}
	batch.Create(rec)

	if err := store.Commit(ctx, batch); err != nil {
		t.Fatalf("неожиданная ошибка коммита: %v", err)
	}

	got, err := store.Get(ctx, "addr-1")
	if err != nil {
		t.Fatalf("неожиданная ошибка чтения: %v", err)
	}
	var p payload
	if err := got.Decode(&p); err != nil {
		t.Fatalf("не удалось распаковать: %v", err)
	}
	if p.Value != "a" {
		t.Errorf("ожидалось значение a, получено %s", p.Value)
	}
	if got.Version != 1 {
		t.Errorf("ожидалась версия 1, получена %d", got.Version)
	}
}

func TestCommit_CreateOverExisting(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	first := &ledger.Batch{}
	first.Create(mustRecord(t, "addr-1", payload{Value: "a"}))
	if err := store.Commit(ctx, first); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	second := &ledger.Batch{}
	second.Create(mustRecord(t, "addr-1", payload{Value: "b"}))
	if err := store.Commit(ctx, second); !errors.Is(err, ledger.ErrAlreadyExists) {
		t.Fatalf("ожидался ErrAlreadyExists, получено %v", err)
	}
}

func TestCommit_VersionConflict(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	create := &ledger.Batch{}
	create.Create(mustRecord(t, "addr-1", payload{Value: "a"}))
	if err := store.Commit(ctx, create); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	// две операции читают одну версию; вторая фиксация конфликтует
	rec1, _ := store.Get(ctx, "addr-1")
	rec2, _ := store.Get(ctx, "addr-1")

	_ = rec1.SetData(payload{Value: "b"})
	b1 := &ledger.Batch{}
	b1.Update(*rec1)
	if err := store.Commit(ctx, b1); err != nil {
		t.Fatalf("первая фиксация должна пройти: %v", err)
	}

	_ = rec2.SetData(payload{Value: "c"})
	b2 := &ledger.Batch{}
	b2.Update(*rec2)
	if err := store.Commit(ctx, b2); !errors.Is(err, ledger.ErrConflict) {
		t.Fatalf("ожидался ErrConflict, получено %v", err)
	}
}

func TestCommit_TransferInsufficientFundsLeavesStateUntouched(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	if err := store.Credit(ctx, "alice", 100); err != nil {
		t.Fatalf("не удалось пополнить баланс: %v", err)
	}

	batch := &ledger.Batch{}
	batch.Create(mustRecord(t, "addr-1", payload{Value: "a"}))
	batch.Transfer("alice", "bob", 150)

	if err := store.Commit(ctx, batch); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("ожидался ErrInsufficientFunds, получено %v", err)
	}

	// запись из отклонённого батча не должна появиться
	if _, err := store.Get(ctx, "addr-1"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("запись из отклонённого батча попала в хранилище")
	}
	balance, _ := store.Balance(ctx, "alice")
	if balance != 100 {
		t.Errorf("баланс изменился после отклонённого батча: %d", balance)
	}
}

func TestCommit_TransferMovesExactAmount(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	_ = store.Credit(ctx, "alice", 500)

	batch := &ledger.Batch{}
	batch.Transfer("alice", "bob", 200)
	if err := store.Commit(ctx, batch); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	alice, _ := store.Balance(ctx, "alice")
	bob, _ := store.Balance(ctx, "bob")
	if alice != 300 || bob != 200 {
		t.Errorf("ожидались балансы 300/200, получены %d/%d", alice, bob)
	}
}

func TestWithClock(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := memstore.New(memstore.WithClock(func() time.Time { return fixed }))

	if !store.Now().Equal(fixed) {
		t.Errorf("ожидалось фиксированное время %v, получено %v", fixed, store.Now())
	}
}
