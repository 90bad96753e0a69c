package profile_test

import (
	"context"
	"testing"

	"github.com/ignatzorin/jobledger/internal/ledger/memstore"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
	"github.com/ignatzorin/jobledger/internal/usecase/profile"
)

func seedProfile(t *testing.T, store *memstore.Store, owner address.Address) {
	t.Helper()
	uc := profile.NewCreateProfileUseCase(store, nil)
	_, err := uc.Execute(context.Background(), profile.CreateProfileInput{
		Signer: owner,
		Owner:  owner,
		Skills: []string{"Go", "PostgreSQL"},
		Region: "Moscow",
		Bio:    "до обновления",
	})
	if err != nil {
		t.Fatalf("не удалось создать профиль: %v", err)
	}
}

func TestUpdateProfileUseCase_PartialUpdate(t *testing.T) {
	store := memstore.New()
	seedProfile(t, store, "owner-1")

	uc := profile.NewUpdateProfileUseCase(store, nil)
	bio := "после обновления"
	result, err := uc.Execute(context.Background(), profile.UpdateProfileInput{
		Signer: "owner-1",
		Owner:  "owner-1",
		Bio:    &bio,
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if result.Bio != "после обновления" {
		t.Errorf("bio не обновился: %q", result.Bio)
	}
	// непереданные поля не трогаются
	if len(result.Skills) != 2 {
		t.Errorf("skills не должны меняться при частичном обновлении: %v", result.Skills)
	}
	if result.Region != "Moscow" {
		t.Errorf("region не должен меняться: %q", result.Region)
	}
}

func TestUpdateProfileUseCase_NotOwner(t *testing.T) {
	store := memstore.New()
	seedProfile(t, store, "owner-1")

	uc := profile.NewUpdateProfileUseCase(store, nil)
	bio := "чужой текст"
	_, err := uc.Execute(context.Background(), profile.UpdateProfileInput{
		Signer: "intruder",
		Owner:  "owner-1",
		Bio:    &bio,
	})
	if !apperror.IsUnauthorized(err) {
		t.Fatalf("ожидался UNAUTHORIZED, получено %v", err)
	}
}

func TestUpdateProfileUseCase_NotFound(t *testing.T) {
	store := memstore.New()
	uc := profile.NewUpdateProfileUseCase(store, nil)

	bio := "текст"
	_, err := uc.Execute(context.Background(), profile.UpdateProfileInput{
		Signer: "owner-1",
		Owner:  "owner-1",
		Bio:    &bio,
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("ожидался NOT_FOUND, получено %v", err)
	}
}

func TestAttachNFTMintUseCase_OnlyOnce(t *testing.T) {
	store := memstore.New()
	seedProfile(t, store, "owner-1")

	uc := profile.NewAttachNFTMintUseCase(store, nil)
	result, err := uc.Execute(context.Background(), profile.AttachNFTMintInput{
		Signer: "owner-1",
		Owner:  "owner-1",
		Mint:   "mint-address-1",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if result.NFTMint == nil || *result.NFTMint != "mint-address-1" {
		t.Fatalf("mint не привязан: %v", result.NFTMint)
	}

	_, err = uc.Execute(context.Background(), profile.AttachNFTMintInput{
		Signer: "owner-1",
		Owner:  "owner-1",
		Mint:   "mint-address-2",
	})
	if !apperror.IsAlreadyInitialized(err) {
		t.Fatalf("повторная привязка должна давать ALREADY_INITIALIZED, получено %v", err)
	}
}
