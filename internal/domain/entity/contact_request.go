package entity

import (
	"time"

	"github.com/ignatzorin/jobledger/internal/domain/valueobject"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

const maxContactMessageLen = 1000

// ContactRequest — платный запрос контакта. Пока статус escrowed, в эскроу
// удерживается ровно price; средства высвобождаются ровно один раз.
type ContactRequest struct {
	Requester  address.Address           `json:"requester"`
	Profile    address.Address           `json:"profile"`
	Message    string                    `json:"message,omitempty"`
	Price      uint64                    `json:"price"`
	Status     valueobject.PaymentStatus `json:"status"`
	CreatedAt  time.Time                 `json:"created_at"`
	ResolvedAt *time.Time                `json:"resolved_at,omitempty"`
}

// NewContactRequest создаёт запрос в статусе initiated.
func NewContactRequest(requester, profile address.Address, message string, price uint64, now time.Time) (*ContactRequest, error) {
	if len(message) > maxContactMessageLen {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "сообщение слишком длинное (максимум 1000 символов)")
	}
	if price == 0 {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "цена должна быть положительной")
	}

	return &ContactRequest{
		Requester: requester,
		Profile:   profile,
		Message:   message,
		Price:     price,
		Status:    valueobject.PaymentStatusInitiated,
		CreatedAt: now,
	}, nil
}

// Escrow фиксирует перевод средств в эскроу.
func (r *ContactRequest) Escrow() error {
	if r.Status != valueobject.PaymentStatusInitiated {
		return apperror.New(apperror.ErrCodeAlreadyResolved, "запрос контакта уже переведён в эскроу")
	}
	r.Status = valueobject.PaymentStatusEscrowed
	return nil
}

// Complete высвобождает эскроу в пользу владельца профиля.
func (r *ContactRequest) Complete(now time.Time) error {
	return r.resolve(valueobject.PaymentStatusCompleted, now)
}

// Refund возвращает эскроу инициатору запроса.
func (r *ContactRequest) Refund(now time.Time) error {
	return r.resolve(valueobject.PaymentStatusRefunded, now)
}

func (r *ContactRequest) resolve(status valueobject.PaymentStatus, now time.Time) error {
	if r.Status != valueobject.PaymentStatusEscrowed {
		return apperror.New(apperror.ErrCodeAlreadyResolved, "запрос контакта уже разрешён")
	}
	r.Status = status
	r.ResolvedAt = &now
	return nil
}

// IsUnresolved сообщает, что запрос ещё удерживает средства в эскроу.
func (r *ContactRequest) IsUnresolved() bool {
	return !r.Status.IsResolved()
}
