// Package ledger описывает границу с внешним сервисом упорядочивания:
// адресуемые записи, балансы и атомарный коммит батча чтений, записей
// и переводов средств.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ignatzorin/jobledger/internal/pkg/address"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrAlreadyExists     = errors.New("record already exists")
	ErrConflict          = errors.New("conflicting write committed")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Record — одна адресуемая запись реестра. Data хранит JSON сущности,
// Version растёт при каждой фиксации и служит для оптимистичного
// контроля конкуренции.
type Record struct {
	Address address.Address `json:"address" db:"address"`
	Kind    address.Kind    `json:"kind" db:"kind"`
	Data    json.RawMessage `json:"data" db:"data"`
	Version uint64          `json:"version" db:"version"`
	Bump    uint8           `json:"bump" db:"bump"`
}

// NewRecord сериализует сущность в новую запись с версией 0.
func NewRecord(kind address.Kind, addr address.Address, bump uint8, v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("ledger: не удалось сериализовать запись %s: %w", addr, err)
	}
	return Record{Address: addr, Kind: kind, Data: data, Bump: bump}, nil
}

// Decode распаковывает JSON записи в сущность.
func (r *Record) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("ledger: не удалось распаковать запись %s: %w", r.Address, err)
	}
	return nil
}

// SetData заменяет полезную нагрузку записи новым состоянием сущности.
func (r *Record) SetData(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ledger: не удалось сериализовать запись %s: %w", r.Address, err)
	}
	r.Data = data
	return nil
}

// Write — одна запись батча. Create требует свободный адрес;
// обновление фиксируется только если версия записи не изменилась
// с момента чтения.
type Write struct {
	Record Record
	Create bool
}

// Transfer — атомарный перевод средств между двумя аккаунтами.
// Вызывается ровно один раз на логический перевод.
type Transfer struct {
	From   address.Address
	To     address.Address
	Amount uint64
}

// Batch — полный набор записей и переводов одной операции.
// Фиксируется целиком или отклоняется целиком.
type Batch struct {
	Writes    []Write
	Transfers []Transfer
}

// Create ставит в батч создание записи по свободному адресу.
func (b *Batch) Create(rec Record) {
	b.Writes = append(b.Writes, Write{Record: rec, Create: true})
}

// Update ставит в батч обновление: rec.Version — версия, прочитанная
// операцией; несовпадение при коммите даёт ErrConflict.
func (b *Batch) Update(rec Record) {
	b.Writes = append(b.Writes, Write{Record: rec})
}

// Transfer ставит в батч перевод средств.
func (b *Batch) Transfer(from, to address.Address, amount uint64) {
	b.Transfers = append(b.Transfers, Transfer{From: from, To: to, Amount: amount})
}

// Store — хранилище записей и балансов с атомарным коммитом.
// Now отдаёт «текущее время» сервиса упорядочивания: им штампуются
// created_at/updated_at и по нему лениво оценивается истечение сроков.
type Store interface {
	Get(ctx context.Context, addr address.Address) (*Record, error)
	Balance(ctx context.Context, addr address.Address) (uint64, error)
	Credit(ctx context.Context, addr address.Address, amount uint64) error
	Commit(ctx context.Context, batch *Batch) error
	Now() time.Time
}
