package application

import (
	"context"
	"errors"

	"github.com/ignatzorin/jobledger/internal/domain/entity"
	"github.com/ignatzorin/jobledger/internal/domain/event"
	"github.com/ignatzorin/jobledger/internal/domain/policy"
	"github.com/ignatzorin/jobledger/internal/domain/valueobject"
	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

type UpdateStatusUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewUpdateStatusUseCase(store ledger.Store, bus event.Bus) *UpdateStatusUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &UpdateStatusUseCase{store: store, bus: bus}
}

type UpdateStatusInput struct {
	Signer      address.Address
	Application address.Address
	NewStatus   string
}

// Execute переводит отклик в новый статус. Отзыв (withdrawn) подписывает
// соискатель, остальные переходы — рекрутер вакансии. Переход в withdrawn
// уменьшает счётчик вакансии в том же батче.
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, input UpdateStatusInput) (*entity.Application, error) {
	newStatus, err := valueobject.NewApplicationStatus(input.NewStatus)
	if err != nil {
		return nil, err
	}

	appRec, err := uc.store.Get(ctx, input.Application)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись отклика")
	}
	var app entity.Application
	if err := appRec.Decode(&app); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось распаковать отклик")
	}

	jobRec, err := uc.store.Get(ctx, app.Job)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись вакансии")
	}
	var j entity.Job
	if err := jobRec.Decode(&j); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось распаковать вакансию")
	}

	if newStatus == valueobject.ApplicationStatusWithdrawn {
		if err := policy.RequireSigner(input.Signer, app.Applicant, policy.RoleApplicant); err != nil {
			return nil, err
		}
	} else {
		if err := policy.RequireSigner(input.Signer, j.Recruiter, policy.RoleRecruiter); err != nil {
			return nil, err
		}
	}

	now := uc.store.Now()
	if err := app.TransitionTo(newStatus, now); err != nil {
		return nil, err
	}

	if err := appRec.SetData(&app); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать отклик")
	}

	batch := &ledger.Batch{}
	batch.Update(*appRec)

	// инвариант: application_count равен числу не-отозванных откликов
	if newStatus == valueobject.ApplicationStatusWithdrawn {
		j.DecrementApplications()
		if err := jobRec.SetData(&j); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать вакансию")
		}
		batch.Update(*jobRec)
	}

	if err := uc.store.Commit(ctx, batch); err != nil {
		if errors.Is(err, ledger.ErrConflict) {
			return nil, apperror.New(apperror.ErrCodeConflict, "запись изменена конкурирующей операцией")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать смену статуса")
	}

	uc.bus.Publish(event.Event{
		Type:    event.TypeApplicationStatusUpdated,
		Record:  input.Application,
		Payload: map[string]any{"status": newStatus},
		At:      now,
	})

	return &app, nil
}
