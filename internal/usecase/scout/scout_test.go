package scout_test

import (
	"context"
	"testing"
	"time"

	"github.com/ignatzorin/jobledger/internal/domain/entity"
	"github.com/ignatzorin/jobledger/internal/ledger/memstore"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
	"github.com/ignatzorin/jobledger/internal/usecase/profile"
	"github.com/ignatzorin/jobledger/internal/usecase/scout"
)

const (
	recruiter = address.Address("recruiter-1")
	talent    = address.Address("talent-1")

	incentive = uint64(5_000_000)
	funds     = uint64(10_000_000)
)

type fixture struct {
	store      *memstore.Store
	clock      *time.Time
	profAddr   address.Address
	escrowAddr address.Address
}

func setup(t *testing.T) fixture {
	t.Helper()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start
	store := memstore.New(memstore.WithClock(func() time.Time { return now }))

	profUC := profile.NewCreateProfileUseCase(store, nil)
	_, err := profUC.Execute(context.Background(), profile.CreateProfileInput{
		Signer: talent,
		Owner:  talent,
		Skills: []string{"Rust"},
	})
	if err != nil {
		t.Fatalf("не удалось создать профиль: %v", err)
	}

	if err := store.Credit(context.Background(), recruiter, funds); err != nil {
		t.Fatalf("не удалось пополнить баланс рекрутера: %v", err)
	}

	profAddr, _ := address.ProfileAddress(talent)
	escrowAddr, _ := address.EscrowAuthorityAddress()
	return fixture{store: store, clock: &now, profAddr: profAddr, escrowAddr: escrowAddr}
}

func balance(t *testing.T, f fixture, addr address.Address) uint64 {
	t.Helper()
	b, err := f.store.Balance(context.Background(), addr)
	if err != nil {
		t.Fatalf("не удалось прочитать баланс %s: %v", addr, err)
	}
	return b
}

func sendOffer(t *testing.T, f fixture) address.Address {
	t.Helper()
	uc := scout.NewSendScoutOfferUseCase(f.store, nil, 0)
	_, err := uc.Execute(context.Background(), scout.SendScoutOfferInput{
		Signer:          recruiter,
		TargetProfile:   f.profAddr,
		Message:         "Есть интересный проект для вас",
		IncentiveAmount: incentive,
	})
	if err != nil {
		t.Fatalf("не удалось отправить предложение: %v", err)
	}
	addr, _ := address.ScoutOfferAddress(recruiter, f.profAddr)
	return addr
}

func TestSendScoutOfferUseCase_DebitsExactIncentive(t *testing.T) {
	f := setup(t)
	sendOffer(t, f)

	if got := balance(t, f, recruiter); got != funds-incentive {
		t.Errorf("баланс рекрутера: ожидалось %d, получено %d", funds-incentive, got)
	}
	if got := balance(t, f, f.escrowAddr); got != incentive {
		t.Errorf("баланс эскроу: ожидалось %d, получено %d", incentive, got)
	}
}

func TestSendScoutOfferUseCase_InsufficientFunds(t *testing.T) {
	f := setup(t)

	uc := scout.NewSendScoutOfferUseCase(f.store, nil, 0)
	_, err := uc.Execute(context.Background(), scout.SendScoutOfferInput{
		Signer:          recruiter,
		TargetProfile:   f.profAddr,
		Message:         "Предложение",
		IncentiveAmount: funds + 1,
	})
	if !apperror.Is(err, apperror.ErrCodeInsufficientFunds) {
		t.Fatalf("ожидался INSUFFICIENT_FUNDS, получено %v", err)
	}
	// неудачная отправка не трогает балансы
	if got := balance(t, f, recruiter); got != funds {
		t.Errorf("баланс рекрутера изменился: %d", got)
	}
}

func TestSendScoutOfferUseCase_BelowMinIncentive(t *testing.T) {
	f := setup(t)

	uc := scout.NewSendScoutOfferUseCase(f.store, nil, 0)
	_, err := uc.Execute(context.Background(), scout.SendScoutOfferInput{
		Signer:          recruiter,
		TargetProfile:   f.profAddr,
		Message:         "Предложение",
		IncentiveAmount: entity.MinScoutIncentive - 1,
	})
	if !apperror.Is(err, apperror.ErrCodeInvalidArgument) {
		t.Fatalf("ожидался INVALID_ARGUMENT, получено %v", err)
	}
}

func TestSendScoutOfferUseCase_DuplicatePair(t *testing.T) {
	f := setup(t)
	sendOffer(t, f)

	uc := scout.NewSendScoutOfferUseCase(f.store, nil, 0)
	_, err := uc.Execute(context.Background(), scout.SendScoutOfferInput{
		Signer:          recruiter,
		TargetProfile:   f.profAddr,
		Message:         "Ещё раз",
		IncentiveAmount: incentive,
	})
	if !apperror.IsAlreadyInitialized(err) {
		t.Fatalf("повторное предложение той же паре должно давать ALREADY_INITIALIZED, получено %v", err)
	}
}

func TestRespondToScoutUseCase_AcceptCreditsOwner(t *testing.T) {
	f := setup(t)
	offerAddr := sendOffer(t, f)

	uc := scout.NewRespondToScoutUseCase(f.store, nil)
	result, err := uc.Execute(context.Background(), scout.RespondToScoutInput{
		Signer: talent,
		Offer:  offerAddr,
		Accept: true,
	})
	if err != nil {
		t.Fatalf("принятие должно пройти: %v", err)
	}
	if string(result.Status) != "accepted" {
		t.Errorf("статус предложения: %s", result.Status)
	}

	if got := balance(t, f, talent); got != incentive {
		t.Errorf("владелец профиля должен получить инсентив целиком: %d", got)
	}
	if got := balance(t, f, f.escrowAddr); got != 0 {
		t.Errorf("эскроу должен обнулиться: %d", got)
	}
}

func TestRespondToScoutUseCase_DeclineRefundsRecruiter(t *testing.T) {
	f := setup(t)
	offerAddr := sendOffer(t, f)

	uc := scout.NewRespondToScoutUseCase(f.store, nil)
	_, err := uc.Execute(context.Background(), scout.RespondToScoutInput{
		Signer: talent,
		Offer:  offerAddr,
		Accept: false,
	})
	if err != nil {
		t.Fatalf("отклонение должно пройти: %v", err)
	}

	if got := balance(t, f, recruiter); got != funds {
		t.Errorf("рекрутеру должен вернуться полный инсентив: %d", got)
	}
	if got := balance(t, f, talent); got != 0 {
		t.Errorf("владелец профиля ничего не получает при отказе: %d", got)
	}
}

func TestRespondToScoutUseCase_DoubleRespond(t *testing.T) {
	f := setup(t)
	offerAddr := sendOffer(t, f)

	uc := scout.NewRespondToScoutUseCase(f.store, nil)
	input := scout.RespondToScoutInput{Signer: talent, Offer: offerAddr, Accept: true}
	if _, err := uc.Execute(context.Background(), input); err != nil {
		t.Fatalf("первый ответ должен пройти: %v", err)
	}

	_, err := uc.Execute(context.Background(), input)
	if !apperror.Is(err, apperror.ErrCodeAlreadyResolved) {
		t.Fatalf("повторный ответ должен давать ALREADY_RESOLVED, получено %v", err)
	}
	// средства не двигаются второй раз
	if got := balance(t, f, talent); got != incentive {
		t.Errorf("баланс владельца изменился повторно: %d", got)
	}
}

func TestRespondToScoutUseCase_NotTargetOwner(t *testing.T) {
	f := setup(t)
	offerAddr := sendOffer(t, f)

	uc := scout.NewRespondToScoutUseCase(f.store, nil)
	_, err := uc.Execute(context.Background(), scout.RespondToScoutInput{
		Signer: "intruder",
		Offer:  offerAddr,
		Accept: true,
	})
	if !apperror.IsUnauthorized(err) {
		t.Fatalf("ожидался UNAUTHORIZED, получено %v", err)
	}
}

func TestRespondToScoutUseCase_ExpiredRefundsRecruiter(t *testing.T) {
	f := setup(t)
	offerAddr := sendOffer(t, f)

	// срок истекает через 7 дней
	*f.clock = f.clock.Add(scout.DefaultOfferTTL + time.Hour)

	uc := scout.NewRespondToScoutUseCase(f.store, nil)
	_, err := uc.Execute(context.Background(), scout.RespondToScoutInput{
		Signer: talent,
		Offer:  offerAddr,
		Accept: true,
	})
	if !apperror.Is(err, apperror.ErrCodeAlreadyResolved) {
		t.Fatalf("ответ на истёкшее предложение должен давать ALREADY_RESOLVED, получено %v", err)
	}

	// истечение возвращает инсентив рекрутеру, а не владельцу
	if got := balance(t, f, recruiter); got != funds {
		t.Errorf("рекрутеру должен вернуться инсентив: %d", got)
	}
	if got := balance(t, f, talent); got != 0 {
		t.Errorf("владелец профиля не получает истёкший инсентив: %d", got)
	}
}

func TestRespondToScoutUseCase_RespondBeforeExpiry(t *testing.T) {
	f := setup(t)
	offerAddr := sendOffer(t, f)

	// за час до истечения предложение ещё живо
	*f.clock = f.clock.Add(scout.DefaultOfferTTL - time.Hour)

	uc := scout.NewRespondToScoutUseCase(f.store, nil)
	if _, err := uc.Execute(context.Background(), scout.RespondToScoutInput{
		Signer: talent,
		Offer:  offerAddr,
		Accept: true,
	}); err != nil {
		t.Fatalf("ответ до истечения должен пройти: %v", err)
	}
}
