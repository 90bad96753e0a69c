package job

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

type CloseJobUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewCloseJobUseCase(store ledger.Store, bus event.Bus) *CloseJobUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &CloseJobUseCase{store: store, bus: bus}
}

type CloseJobInput struct {
	Signer address.Address
	Job    address.Address
}

// Execute снимает вакансию с публикации. Существующие отклики остаются.
func (uc *CloseJobUseCase) Execute(ctx context.Context, input CloseJobInput) (*entity.Job, error) {
	rec, err := uc.store.Get(ctx, input.Job)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись вакансии")
	}

	var j entity.Job
	if err := rec.Decode(&j); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось распаковать вакансию")
	}

	if err := policy.RequireSigner(input.Signer, j.Recruiter, policy.RoleRecruiter); err != nil {
		return nil, err
	}

	if err := j.Close(); err != nil {
		return nil, err
	}

	if err := rec.SetData(&j); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать вакансию")
	}

	batch := &ledger.Batch{}
	batch.Update(*rec)
	if err := uc.store.Commit(ctx, batch); err != nil {
		if errors.Is(err, ledger.ErrConflict) {
			return nil, apperror.New(apperror.ErrCodeConflict, "запись вакансии изменена конкурирующей операцией")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать закрытие вакансии")
	}

	uc.bus.Publish(event.Event{Type: event.TypeJobClosed, Record: input.Job, At: uc.store.Now()})

	return &j, nil
}
