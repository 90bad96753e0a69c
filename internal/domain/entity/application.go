package entity

import (
	"time"

	"github.com/ignatzorin/jobledger/internal/domain/valueobject"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

const maxCoverLetterLen = 1000

// Application — отклик соискателя на вакансию, не более одного на пару
// (job, applicant). Ссылки на вакансию и профиль хранятся адресами.
type Application struct {
	Job         address.Address               `json:"job"`
	Applicant   address.Address               `json:"applicant"`
	Profile     address.Address               `json:"profile"`
	CoverLetter string                        `json:"cover_letter"`
	Status      valueobject.ApplicationStatus `json:"status"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

// NewApplication создаёт отклик в статусе pending.
func NewApplication(job, applicant, profile address.Address, coverLetter string, now time.Time) (*Application, error) {
	if len(coverLetter) > maxCoverLetterLen {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "сопроводительное письмо слишком длинное (максимум 1000 символов)")
	}

	return &Application{
		Job:         job,
		Applicant:   applicant,
		Profile:     profile,
		CoverLetter: coverLetter,
		Status:      valueobject.ApplicationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TransitionTo переводит отклик в новый статус, сверяясь с таблицей
// переходов. Любая пара вне таблицы — InvalidStatusTransition.
func (a *Application) TransitionTo(newStatus valueobject.ApplicationStatus, now time.Time) error {
	if !a.Status.CanTransitionTo(newStatus) {
		return apperror.New(apperror.ErrCodeInvalidStatusTransition,
			"переход "+string(a.Status)+" → "+string(newStatus)+" запрещён")
	}
	a.Status = newStatus
	a.UpdatedAt = now
	return nil
}

func (a *Application) IsOwnedBy(signer address.Address) bool {
	return a.Applicant == signer
}
