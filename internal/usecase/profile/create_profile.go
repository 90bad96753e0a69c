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

type CreateProfileUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewCreateProfileUseCase(store ledger.Store, bus event.Bus) *CreateProfileUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &CreateProfileUseCase{store: store, bus: bus}
}

type CreateProfileInput struct {
	Signer            address.Address
	Owner             address.Address
	Skills            []string
	ExperienceYears   uint16
	Region            string
	Bio               string
	Handle            string
	ContactPrices     []valueobject.ContactPriceTier
	ResponseTimeHours uint16
}

// Execute создаёт профиль по адресу, выведенному из владельца.
// Handle, если указан, резервируется записью-заявкой в том же батче.
func (uc *CreateProfileUseCase) Execute(ctx context.Context, input CreateProfileInput) (*entity.Profile, error) {
	if err := policy.RequireSigner(input.Signer, input.Owner, policy.RoleOwner); err != nil {
		return nil, err
	}

	addr, bump := address.ProfileAddress(input.Owner)
	if _, err := uc.store.Get(ctx, addr); err == nil {
		return nil, apperror.New(apperror.ErrCodeAlreadyInitialized, "профиль для этого владельца уже существует")
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись профиля")
	}

	now := uc.store.Now()
	prof, err := entity.NewProfile(input.Owner, input.Skills, input.ExperienceYears,
		input.Region, input.Bio, input.Handle, input.ContactPrices, input.ResponseTimeHours, now)
	if err != nil {
		return nil, err
	}

	rec, err := ledger.NewRecord(address.KindProfile, addr, bump, prof)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать профиль")
	}

	batch := &ledger.Batch{}
	batch.Create(rec)

	if prof.Handle != "" {
		claimAddr, claimBump := address.HandleAddress(prof.Handle)
		if _, err := uc.store.Get(ctx, claimAddr); err == nil {
			return nil, apperror.New(apperror.ErrCodeAlreadyInitialized, "handle уже занят")
		} else if !errors.Is(err, ledger.ErrNotFound) {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось проверить handle")
		}

		claim := entity.HandleClaim{Handle: prof.Handle, Owner: input.Owner, CreatedAt: now}
		claimRec, err := ledger.NewRecord(address.KindHandle, claimAddr, claimBump, claim)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать заявку на handle")
		}
		batch.Create(claimRec)
	}

	if err := uc.store.Commit(ctx, batch); err != nil {
		if errors.Is(err, ledger.ErrAlreadyExists) {
			return nil, apperror.New(apperror.ErrCodeAlreadyInitialized, "профиль для этого владельца уже существует")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать создание профиля")
	}

	uc.bus.Publish(event.Event{
		Type:   event.TypeProfileCreated,
		Record: addr,
		Payload: map[string]any{
			"owner":  prof.Owner,
			"handle": prof.Handle,
		},
		At: now,
	})

	return prof, nil
}
