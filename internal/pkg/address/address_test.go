package address_test

import (
	"testing"

	"github.com/ignatzorin/jobledger/internal/pkg/address"
)

func TestDerive_Deterministic(t *testing.T) {
	a1, b1 := address.ProfileAddress("owner-key")
	a2, b2 := address.ProfileAddress("owner-key")

	if a1 != a2 {
		t.Errorf("одинаковые сиды дали разные адреса: %s != %s", a1, a2)
	}
	if b1 != b2 {
		t.Errorf("одинаковые сиды дали разные дизамбигуаторы: %d != %d", b1, b2)
	}
}

func TestDerive_DistinctOwners(t *testing.T) {
	a1, _ := address.ProfileAddress("owner-a")
	a2, _ := address.ProfileAddress("owner-b")

	if a1 == a2 {
		t.Error("разные владельцы получили одинаковый адрес профиля")
	}
}

func TestDerive_DistinctKinds(t *testing.T) {
	a1, _ := address.Derive(address.KindProfile, []byte("x"))
	a2, _ := address.Derive(address.KindJob, []byte("x"))

	if a1 == a2 {
		t.Error("разные типы записей получили одинаковый адрес")
	}
}

func TestDerive_SeedSplitDoesNotCollide(t *testing.T) {
	// ("ab", "c") и ("a", "bc") не должны давать одинаковый вход хэша.
	a1, _ := address.Derive(address.KindApplication, []byte("ab"), []byte("c"))
	a2, _ := address.Derive(address.KindApplication, []byte("a"), []byte("bc"))

	if a1 == a2 {
		t.Error("разные разбиения сидов дали одинаковый адрес")
	}
}

func TestJobAddress_DependsOnID(t *testing.T) {
	a1, _ := address.JobAddress("recruiter", 1)
	a2, _ := address.JobAddress("recruiter", 2)

	if a1 == a2 {
		t.Error("разные job id получили одинаковый адрес")
	}
}

func TestEscrowAuthorityAddress_Stable(t *testing.T) {
	a1, _ := address.EscrowAuthorityAddress()
	a2, _ := address.EscrowAuthorityAddress()

	if a1 != a2 {
		t.Error("адрес эскроу-записи должен быть стабильным")
	}
	if a1 == "" {
		t.Error("адрес эскроу-записи пуст")
	}
}
