package entity

import (
	"time"

	"github.com/ignatzorin/jobledger/internal/pkg/address"
)

// HandleClaim — запись-заявка на уникальный handle. Создаётся в одном
// батче с профилем; занятый handle означает существующую запись по
// адресу Derive("handle", handle).
type HandleClaim struct {
	Handle    string          `json:"handle"`
	Owner     address.Address `json:"owner"`
	CreatedAt time.Time       `json:"created_at"`
}
