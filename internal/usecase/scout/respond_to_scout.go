package scout

import (
	"context"
	"errors"
	"time"

	"github.com/ignatzorin/jobledger/internal/domain/entity"
	"github.com/ignatzorin/jobledger/internal/domain/event"
	"github.com/ignatzorin/jobledger/internal/domain/policy"
	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

type RespondToScoutUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewRespondToScoutUseCase(store ledger.Store, bus event.Bus) *RespondToScoutUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &RespondToScoutUseCase{store: store, bus: bus}
}

type RespondToScoutInput struct {
	Signer address.Address
	Offer  address.Address
	Accept bool
}

// Execute разрешает предложение ровно одним путём: принятие переводит
// инсентив владельцу профиля, отказ возвращает его рекрутеру. Просроченное
// предложение фиксируется как expired с возвратом средств, а вызов
// завершается AlreadyResolved.
func (uc *RespondToScoutUseCase) Execute(ctx context.Context, input RespondToScoutInput) (*entity.ScoutOffer, error) {
	offerRec, err := uc.store.Get(ctx, input.Offer)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, apperror.ErrScoutOfferNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись предложения")
	}
	var offer entity.ScoutOffer
	if err := offerRec.Decode(&offer); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось распаковать предложение")
	}

	profRec, err := uc.store.Get(ctx, offer.TargetProfile)
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

	now := uc.store.Now()
	escrowAddr, _ := address.EscrowAuthorityAddress()

	if offer.IsExpired(now) {
		if err := offer.Expire(now); err != nil {
			return nil, err
		}
		if err := offerRec.SetData(&offer); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать предложение")
		}
		batch := &ledger.Batch{}
		batch.Update(*offerRec)
		batch.Transfer(escrowAddr, offer.Recruiter, offer.IncentiveAmount)
		if err := uc.commit(ctx, batch); err != nil {
			return nil, err
		}
		uc.publishResponded(input.Offer, false, now)
		return nil, apperror.New(apperror.ErrCodeAlreadyResolved, "срок предложения истёк, инсентив возвращён рекрутеру")
	}

	if input.Accept {
		if err := offer.Accept(now); err != nil {
			return nil, err
		}
	} else {
		if err := offer.Decline(now); err != nil {
			return nil, err
		}
	}

	if err := offerRec.SetData(&offer); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать предложение")
	}

	batch := &ledger.Batch{}
	batch.Update(*offerRec)
	if input.Accept {
		batch.Transfer(escrowAddr, prof.Owner, offer.IncentiveAmount)
	} else {
		batch.Transfer(escrowAddr, offer.Recruiter, offer.IncentiveAmount)
	}
	if err := uc.commit(ctx, batch); err != nil {
		return nil, err
	}

	uc.publishResponded(input.Offer, input.Accept, now)

	return &offer, nil
}

func (uc *RespondToScoutUseCase) commit(ctx context.Context, batch *ledger.Batch) error {
	if err := uc.store.Commit(ctx, batch); err != nil {
		if errors.Is(err, ledger.ErrConflict) {
			return apperror.New(apperror.ErrCodeAlreadyResolved, "предложение уже разрешено конкурирующей операцией")
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать ответ на предложение")
	}
	return nil
}

func (uc *RespondToScoutUseCase) publishResponded(offer address.Address, accepted bool, at time.Time) {
	uc.bus.Publish(event.Event{
		Type:    event.TypeScoutOfferResponded,
		Record:  offer,
		Payload: map[string]any{"accepted": accepted},
		At:      at,
	})
}
