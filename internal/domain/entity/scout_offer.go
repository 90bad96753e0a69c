package entity

import (
	"time"

	"github.com/ignatzorin/jobledger/internal/domain/valueobject"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

const (
	maxScoutMessageLen = 500

	// MinScoutIncentive — минимальный размер инсентива в минимальных
	// единицах валюты.
	MinScoutIncentive uint64 = 1_000_000
)

// ScoutOffer — предложение рекрутера владельцу профиля. Пока оно pending,
// инсентив удерживается в эскроу и не принадлежит ни одной из сторон.
type ScoutOffer struct {
	Recruiter       address.Address         `json:"recruiter"`
	TargetProfile   address.Address         `json:"target_profile"`
	Message         string                  `json:"message"`
	IncentiveAmount uint64                  `json:"incentive_amount"`
	Status          valueobject.ScoutStatus `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
	ExpiresAt       time.Time               `json:"expires_at"`
	RespondedAt     *time.Time              `json:"responded_at,omitempty"`
}

// NewScoutOffer создаёт предложение в статусе pending со сроком жизни ttl.
func NewScoutOffer(recruiter, targetProfile address.Address, message string, incentiveAmount uint64,
	ttl time.Duration, now time.Time) (*ScoutOffer, error) {

	if len(message) > maxScoutMessageLen {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "сообщение слишком длинное (максимум 500 символов)")
	}
	if incentiveAmount < MinScoutIncentive {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "инсентив ниже минимального размера")
	}

	return &ScoutOffer{
		Recruiter:       recruiter,
		TargetProfile:   targetProfile,
		Message:         message,
		IncentiveAmount: incentiveAmount,
		Status:          valueobject.ScoutStatusPending,
		CreatedAt:       now,
		ExpiresAt:       now.Add(ttl),
	}, nil
}

// IsExpired лениво оценивает истечение срока: планировщика нет, статус
// expired фиксируется только в момент следующего обращения к записи.
func (o *ScoutOffer) IsExpired(now time.Time) bool {
	return o.Status == valueobject.ScoutStatusPending && !now.Before(o.ExpiresAt)
}

// Accept принимает предложение. Инсентив уходит владельцу профиля.
func (o *ScoutOffer) Accept(now time.Time) error {
	return o.resolve(valueobject.ScoutStatusAccepted, now)
}

// Decline отклоняет предложение. Инсентив возвращается рекрутеру.
func (o *ScoutOffer) Decline(now time.Time) error {
	return o.resolve(valueobject.ScoutStatusDeclined, now)
}

// Expire фиксирует истечение срока. Инсентив возвращается рекрутеру.
func (o *ScoutOffer) Expire(now time.Time) error {
	return o.resolve(valueobject.ScoutStatusExpired, now)
}

func (o *ScoutOffer) resolve(status valueobject.ScoutStatus, now time.Time) error {
	if o.Status.IsResolved() {
		return apperror.New(apperror.ErrCodeAlreadyResolved, "скаут-предложение уже разрешено")
	}
	o.Status = status
	o.RespondedAt = &now
	return nil
}
