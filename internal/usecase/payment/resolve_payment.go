package payment

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

type CompletePaymentUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewCompletePaymentUseCase(store ledger.Store, bus event.Bus) *CompletePaymentUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &CompletePaymentUseCase{store: store, bus: bus}
}

type ResolvePaymentInput struct {
	Signer         address.Address
	ContactRequest address.Address
}

// Execute высвобождает эскроу в пользу владельца профиля. Подписывает
// только владелец профиля; complete и refund взаимно исключающие —
// второй вызов падает с AlreadyResolved.
func (uc *CompletePaymentUseCase) Execute(ctx context.Context, input ResolvePaymentInput) (*entity.ContactRequest, error) {
	req, reqRec, prof, err := loadRequest(ctx, uc.store, input.ContactRequest)
	if err != nil {
		return nil, err
	}

	if input.Signer == "" || input.Signer != prof.Owner {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "завершить платёж может только владелец профиля")
	}

	now := uc.store.Now()
	if err := req.Complete(now); err != nil {
		return nil, err
	}

	if err := commitResolution(ctx, uc.store, reqRec, req, prof.Owner); err != nil {
		return nil, err
	}

	publishProcessed(uc.bus, input.ContactRequest, req, true, now)
	return req, nil
}

type RefundPaymentUseCase struct {
	store ledger.Store
	bus   event.Bus
}

func NewRefundPaymentUseCase(store ledger.Store, bus event.Bus) *RefundPaymentUseCase {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &RefundPaymentUseCase{store: store, bus: bus}
}

// Execute возвращает эскроу инициатору запроса. Владелец профиля может
// вернуть средства в любой момент; сам инициатор — только после того,
// как истёк заявленный профилем срок ответа (response_time_hours).
func (uc *RefundPaymentUseCase) Execute(ctx context.Context, input ResolvePaymentInput) (*entity.ContactRequest, error) {
	req, reqRec, prof, err := loadRequest(ctx, uc.store, input.ContactRequest)
	if err != nil {
		return nil, err
	}

	now := uc.store.Now()
	switch input.Signer {
	case prof.Owner:
	case req.Requester:
		grace := req.CreatedAt.Add(time.Duration(prof.ResponseTimeHours) * time.Hour)
		if now.Before(grace) {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, "инициатор может вернуть средства только после истечения срока ответа")
		}
	default:
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "возврат доступен владельцу профиля или инициатору запроса")
	}

	if err := req.Refund(now); err != nil {
		return nil, err
	}

	if err := commitResolution(ctx, uc.store, reqRec, req, req.Requester); err != nil {
		return nil, err
	}

	publishProcessed(uc.bus, input.ContactRequest, req, false, now)
	return req, nil
}

func loadRequest(ctx context.Context, store ledger.Store, reqAddr address.Address) (*entity.ContactRequest, *ledger.Record, *entity.Profile, error) {
	reqRec, err := store.Get(ctx, reqAddr)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil, nil, apperror.ErrContactRequestNotFound
		}
		return nil, nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись запроса")
	}
	var req entity.ContactRequest
	if err := reqRec.Decode(&req); err != nil {
		return nil, nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось распаковать запрос")
	}

	profRec, err := store.Get(ctx, req.Profile)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil, nil, apperror.ErrProfileNotFound
		}
		return nil, nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать запись профиля")
	}
	var prof entity.Profile
	if err := profRec.Decode(&prof); err != nil {
		return nil, nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось распаковать профиль")
	}

	return &req, reqRec, &prof, nil
}

// commitResolution обновляет запись запроса и переводит эскроу получателю
// в одном батче: смена статуса и движение средств неразделимы.
func commitResolution(ctx context.Context, store ledger.Store, reqRec *ledger.Record, req *entity.ContactRequest, recipient address.Address) error {
	if err := reqRec.SetData(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать запрос")
	}

	escrowAddr, _ := address.EscrowAuthorityAddress()
	batch := &ledger.Batch{}
	batch.Update(*reqRec)
	batch.Transfer(escrowAddr, recipient, req.Price)

	if err := store.Commit(ctx, batch); err != nil {
		if errors.Is(err, ledger.ErrConflict) {
			return apperror.New(apperror.ErrCodeAlreadyResolved, "запрос уже разрешён конкурирующей операцией")
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось зафиксировать разрешение запроса")
	}
	return nil
}

func publishProcessed(bus event.Bus, reqAddr address.Address, req *entity.ContactRequest, accepted bool, at time.Time) {
	bus.Publish(event.Event{
		Type:   event.TypeContactRequestProcessed,
		Record: reqAddr,
		Payload: map[string]any{
			"requester": req.Requester,
			"profile":   req.Profile,
			"accepted":  accepted,
			"price":     req.Price,
		},
		At: at,
	})
}
