package application

import (
	"context"
	"errors"

	"github.com/ignatzorin/jobledger/internal/domain/entity"
	"github.com/ignatzorin/jobledger/internal/domain/event"
	"github.com/ignatzorin/jobledger/internal/domain/policy"
	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

type ApplyToJobUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewApplyToJobUseCase(store ledger.Store, bus event.Bus) *ApplyToJobUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &ApplyToJobUseCase{store: store, bus: bus}
}

type ApplyToJobInput struct {
	Signer      address.Address
	Job         address.Address
	Profile     address.Address
	CoverLetter string
}

// Execute атомарно создаёт отклик и увеличивает счётчик вакансии:
// обе записи фиксируются одним батчем или не фиксируются вовсе.
func (uc *ApplyToJobUseCase) Execute(ctx context.Context, input ApplyToJobInput) (*entity.Application, error) {
	jobRec, err := uc.store.Get(ctx, input.Job)
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
	if !j.IsActive {
		return nil, apperror.New(apperror.ErrCodeInactiveJob, "вакансия закрыта")
	}

	profRec, err := uc.store.Get(ctx, input.Profile)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись профиля")
	}
	var prof entity.Profile
	if err := profRec.Decode(&prof); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось распаковать профиль")
	}
	if err := policy.RequireSigner(input.Signer, prof.Owner, policy.RoleOwner); err != nil {
		return nil, err
	}
	if !prof.IsPublic {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "для отклика профиль должен быть публичным")
	}

	appAddr, bump := address.ApplicationAddress(input.Job, input.Signer)
	if _, err := uc.store.Get(ctx, appAddr); err == nil {
		return nil, apperror.New(apperror.ErrCodeDuplicateApplication, "отклик на эту вакансию уже существует")
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись отклика")
	}

	now := uc.store.Now()
	app, err := entity.NewApplication(input.Job, input.Signer, input.Profile, input.CoverLetter, now)
	if err != nil {
		return nil, err
	}

	appRec, err := ledger.NewRecord(address.KindApplication, appAddr, bump, app)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать отклик")
	}

	j.IncrementApplications()
	if err := jobRec.SetData(&j); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать вакансию")
	}

	batch := &ledger.Batch{}
	batch.Create(appRec)
	batch.Update(*jobRec)
	if err := uc.store.Commit(ctx, batch); err != nil {
		switch {
		case errors.Is(err, ledger.ErrAlreadyExists):
			return nil, apperror.New(apperror.ErrCodeDuplicateApplication, "отклик на эту вакансию уже существует")
		case errors.Is(err, ledger.ErrConflict):
			return nil, apperror.New(apperror.ErrCodeConflict, "запись вакансии изменена конкурирующей операцией")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать отклик")
	}

	uc.bus.Publish(event.Event{
		Type:   event.TypeJobApplication,
		Record: appAddr,
		Payload: map[string]any{
			"job":       input.Job,
			"applicant": input.Signer,
		},
		At: now,
	})

	return app, nil
}
