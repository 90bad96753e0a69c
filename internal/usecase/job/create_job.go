package job

import (
	"context"
	"errors"

	"github.com/ignatzorin/jobledger/internal/domain/entity"
	"github.com/ignatzorin/jobledger/internal/domain/event"
	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

type CreateJobUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewCreateJobUseCase(store ledger.Store, bus event.Bus) *CreateJobUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &CreateJobUseCase{store: store, bus: bus}
}

type CreateJobInput struct {
	Signer         address.Address
	ID             uint64
	Title          string
	Description    string
	RequiredSkills []string
	SalaryMin      uint64
	SalaryMax      uint64
	DurationDays   uint16
}

// Execute создаёт вакансию по адресу, выведенному из (recruiter, id).
// Повторное использование id тем же рекрутером — AlreadyInitialized.
func (uc *CreateJobUseCase) Execute(ctx context.Context, input CreateJobInput) (*entity.Job, error) {
	if input.Signer == "" {
		return nil, apperror.ErrUnauthorized
	}

	addr, bump := address.JobAddress(input.Signer, input.ID)
	if _, err := uc.store.Get(ctx, addr); err == nil {
		return nil, apperror.New(apperror.ErrCodeAlreadyInitialized, "вакансия с этим id уже существует")
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись вакансии")
	}

	now := uc.store.Now()
	j, err := entity.NewJob(input.Signer, input.ID, input.Title, input.Description,
		input.RequiredSkills, input.SalaryMin, input.SalaryMax, input.DurationDays, now)
	if err != nil {
		return nil, err
	}

	rec, err := ledger.NewRecord(address.KindJob, addr, bump, j)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать вакансию")
	}

	batch := &ledger.Batch{}
	batch.Create(rec)
	if err := uc.store.Commit(ctx, batch); err != nil {
		if errors.Is(err, ledger.ErrAlreadyExists) {
			return nil, apperror.New(apperror.ErrCodeAlreadyInitialized, "вакансия с этим id уже существует")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать создание вакансии")
	}

	uc.bus.Publish(event.Event{
		Type:   event.TypeJobCreated,
		Record: addr,
		Payload: map[string]any{
			"recruiter": j.Recruiter,
			"title":     j.Title,
		},
		At: now,
	})

	return j, nil
}
