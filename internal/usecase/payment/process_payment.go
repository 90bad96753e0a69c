package payment

import (
	"context"
	"errors"

	"github.com/ignatzorin/jobledger/internal/domain/entity"
	"github.com/ignatzorin/jobledger/internal/domain/event"
	"github.com/ignatzorin/jobledger/internal/domain/valueobject"
	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

type ProcessPaymentUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewProcessPaymentUseCase(store ledger.Store, bus event.Bus) *ProcessPaymentUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &ProcessPaymentUseCase{store: store, bus: bus}
}

type ProcessPaymentInput struct {
	Signer  address.Address
	Profile address.Address
	Price   uint64
	Message string
}

// Execute создаёт запрос контакта и одним батчем переводит price в эскроу.
// Цена обязана совпасть с одним из тарифов профиля на момент создания.
// Разрешённый ранее запрос той же пары переинициализируется на том же
// адресе; неразрешённый — AlreadyInitialized.
func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, input ProcessPaymentInput) (*entity.ContactRequest, error) {
	if input.Signer == "" {
		return nil, apperror.ErrUnauthorized
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

	if !valueobject.ContainsPrice(prof.ContactPrices, input.Price) {
		return nil, apperror.New(apperror.ErrCodePriceMismatch, "цена не совпадает ни с одним тарифом профиля")
	}

	reqAddr, bump := address.ContactRequestAddress(input.Signer, input.Profile)
	existing, err := uc.store.Get(ctx, reqAddr)
	switch {
	case err == nil:
		var prev entity.ContactRequest
		if err := existing.Decode(&prev); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось распаковать запрос контакта")
		}
		if prev.IsUnresolved() {
			return nil, apperror.New(apperror.ErrCodeAlreadyInitialized, "неразрешённый запрос контакта уже существует")
		}
	case errors.Is(err, ledger.ErrNotFound):
		existing = nil
	default:
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись запроса")
	}

	now := uc.store.Now()
	req, err := entity.NewContactRequest(input.Signer, input.Profile, input.Message, input.Price, now)
	if err != nil {
		return nil, err
	}
	if err := req.Escrow(); err != nil {
		return nil, err
	}

	escrowAddr, _ := address.EscrowAuthorityAddress()
	batch := &ledger.Batch{}

	if existing != nil {
		// переинициализация на том же детерминированном адресе
		if err := existing.SetData(req); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать запрос")
		}
		batch.Update(*existing)
	} else {
		rec, err := ledger.NewRecord(address.KindContactRequest, reqAddr, bump, req)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать запрос")
		}
		batch.Create(rec)
	}
	batch.Transfer(input.Signer, escrowAddr, input.Price)

	if err := uc.store.Commit(ctx, batch); err != nil {
		switch {
		case errors.Is(err, ledger.ErrAlreadyExists), errors.Is(err, ledger.ErrConflict):
			return nil, apperror.New(apperror.ErrCodeAlreadyInitialized, "неразрешённый запрос контакта уже существует")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return nil, apperror.ErrInsufficientFunds
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать запрос контакта")
	}

	uc.bus.Publish(event.Event{
		Type:   event.TypeContactRequestSent,
		Record: reqAddr,
		Payload: map[string]any{
			"requester": req.Requester,
			"profile":   req.Profile,
			"price":     req.Price,
		},
		At: now,
	})

	return req, nil
}
