package profile

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

type UpdateProfileUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewUpdateProfileUseCase(store ledger.Store, bus event.Bus) *UpdateProfileUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &UpdateProfileUseCase{store: store, bus: bus}
}

type UpdateProfileInput struct {
	Signer            address.Address
	Owner             address.Address
	Skills            *[]string
	Bio               *string
	IsPublic          *bool
	ContactPrices     *[]valueobject.ContactPriceTier
	ResponseTimeHours *uint16
}

// Execute частично обновляет профиль: nil-поля не трогаются.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*entity.Profile, error) {
	addr, _ := address.ProfileAddress(input.Owner)
	rec, err := uc.store.Get(ctx, addr)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись профиля")
	}

	var prof entity.Profile
	if err := rec.Decode(&prof); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось распаковать профиль")
	}

	if err := policy.RequireSigner(input.Signer, prof.Owner, policy.RoleOwner); err != nil {
		return nil, err
	}

	now := uc.store.Now()
	upd := entity.ProfileUpdate{
		Skills:            input.Skills,
		Bio:               input.Bio,
		IsPublic:          input.IsPublic,
		ContactPrices:     input.ContactPrices,
		ResponseTimeHours: input.ResponseTimeHours,
	}
	if err := prof.Apply(upd, now); err != nil {
		return nil, err
	}

	if err := rec.SetData(&prof); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать профиль")
	}

	batch := &ledger.Batch{}
	batch.Update(*rec)
	if err := uc.store.Commit(ctx, batch); err != nil {
		if errors.Is(err, ledger.ErrConflict) {
			return nil, apperror.New(apperror.ErrCodeConflict, "запись профиля изменена конкурирующей операцией")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать обновление профиля")
	}

	uc.bus.Publish(event.Event{Type: event.TypeProfileUpdated, Record: addr, At: now})

	return &prof, nil
}
