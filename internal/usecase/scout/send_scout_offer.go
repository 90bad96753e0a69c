package scout

import (
	"context"
	"errors"
	"time"

	"github.com/ignatzorin/jobledger/internal/domain/entity"
	"github.com/ignatzorin/jobledger/internal/domain/event"
	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

// DefaultOfferTTL — срок жизни скаут-предложения.
const DefaultOfferTTL = 7 * 24 * time.Hour

type SendScoutOfferUseCase struct {
	store ledger.Store
	bus   event.Bus
	ttl   time.Duration
}

func NewSendScoutOfferUseCase(store ledger.Store, bus event.Bus, ttl time.Duration) *SendScoutOfferUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	if ttl <= 0 {
		ttl = DefaultOfferTTL
	}
	return &SendScoutOfferUseCase{store: store, bus: bus, ttl: ttl}
}

type SendScoutOfferInput struct {
	Signer          address.Address
	TargetProfile   address.Address
	Message         string
	IncentiveAmount uint64
}

// Execute создаёт предложение и одним батчем списывает инсентив рекрутера
// в эскроу: пока предложение pending, сумма не принадлежит ни одной стороне.
func (uc *SendScoutOfferUseCase) Execute(ctx context.Context, input SendScoutOfferInput) (*entity.ScoutOffer, error) {
	if input.Signer == "" {
		return nil, apperror.ErrUnauthorized
	}

	if _, err := uc.store.Get(ctx, input.TargetProfile); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись профиля")
	}

	offerAddr, bump := address.ScoutOfferAddress(input.Signer, input.TargetProfile)
	if _, err := uc.store.Get(ctx, offerAddr); err == nil {
		return nil, apperror.New(apperror.ErrCodeAlreadyInitialized, "предложение этому профилю уже отправлено")
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись предложения")
	}

	now := uc.store.Now()
	offer, err := entity.NewScoutOffer(input.Signer, input.TargetProfile, input.Message,
		input.IncentiveAmount, uc.ttl, now)
	if err != nil {
		return nil, err
	}

	rec, err := ledger.NewRecord(address.KindScoutOffer, offerAddr, bump, offer)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать предложение")
	}

	escrowAddr, _ := address.EscrowAuthorityAddress()

	batch := &ledger.Batch{}
	batch.Create(rec)
	batch.Transfer(input.Signer, escrowAddr, offer.IncentiveAmount)
	if err := uc.store.Commit(ctx, batch); err != nil {
		switch {
		case errors.Is(err, ledger.ErrAlreadyExists):
			return nil, apperror.New(apperror.ErrCodeAlreadyInitialized, "предложение этому профилю уже отправлено")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return nil, apperror.ErrInsufficientFunds
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать предложение")
	}

	uc.bus.Publish(event.Event{
		Type:   event.TypeScoutOfferSent,
		Record: offerAddr,
		Payload: map[string]any{
			"recruiter":        offer.Recruiter,
			"target_profile":   offer.TargetProfile,
			"incentive_amount": offer.IncentiveAmount,
		},
		At: now,
	})

	return offer, nil
}
