package profile

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

type AttachNFTMintUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewAttachNFTMintUseCase(store ledger.Store, bus event.Bus) *AttachNFTMintUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &AttachNFTMintUseCase{store: store, bus: bus}
}

type AttachNFTMintInput struct {
	Signer address.Address
	Owner  address.Address
	Mint   address.Address
}

// Execute сохраняет ссылку на NFT, созданный внешним минт-сервисом.
// Движок хранит только ссылку и не валидирует сам минт.
func (uc *AttachNFTMintUseCase) Execute(ctx context.Context, input AttachNFTMintInput) (*entity.Profile, error) {
	if input.Mint == "" {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "не указан адрес минта")
	}

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
	if err := prof.AttachNFTMint(input.Mint, now); err != nil {
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
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать привязку nft")
	}

	uc.bus.Publish(event.Event{
		Type:    event.TypeProfileNFTAttached,
		Record:  addr,
		Payload: map[string]any{"mint": input.Mint},
		At:      now,
	})

	return &prof, nil
}
