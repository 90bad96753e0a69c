// Package address реализует детерминированный вывод адресов записей реестра.
//
// Адрес записи — это blake2b-256 хэш от (kind, seeds...), закодированный в
// base58. Любая сторона может пересчитать адрес независимо, зная сид-поля.
package address

import (
	"encoding/binary"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
)

// Address — base58-закодированный адрес записи или аккаунта в реестре.
type Address string

func (a Address) String() string { return string(a) }

// Kind определяет тип записи и первый сид при выводе адреса.
type Kind string

const (
	KindProfile         Kind = "profile"
	KindJob             Kind = "job"
	KindApplication     Kind = "application"
	KindScoutOffer      Kind = "scout"
	KindContactRequest  Kind = "contact_request"
	KindEscrowAuthority Kind = "escrow_authority"
	KindHandle          Kind = "handle"
)

// Derive вычисляет адрес записи по типу и сид-полям. Возвращает также
// дизамбигуатор — однобайтовую метку, сохраняемую вместе с записью.
// Сиды конкатенируются с длинными префиксами, чтобы разные разбиения
// не давали одинаковый вход хэша.
func Derive(kind Kind, seeds ...[]byte) (Address, uint8) {
	buf := appendSeed(nil, []byte(kind))
	for _, seed := range seeds {
		buf = appendSeed(buf, seed)
	}
	sum := blake2b.Sum256(buf)
	return Address(base58.Encode(sum[:])), sum[31]
}

func appendSeed(buf, seed []byte) []byte {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(seed)))
	buf = append(buf, length[:]...)
	return append(buf, seed...)
}

// ProfileAddress выводит адрес профиля по владельцу.
func ProfileAddress(owner Address) (Address, uint8) {
	return Derive(KindProfile, []byte(owner))
}

// JobAddress выводит адрес вакансии по рекрутеру и выбранному им id.
func JobAddress(recruiter Address, jobID uint64) (Address, uint8) {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], jobID)
	return Derive(KindJob, []byte(recruiter), id[:])
}

// ApplicationAddress выводит адрес отклика по вакансии и соискателю.
func ApplicationAddress(job, applicant Address) (Address, uint8) {
	return Derive(KindApplication, []byte(job), []byte(applicant))
}

// ScoutOfferAddress выводит адрес скаут-предложения.
func ScoutOfferAddress(recruiter, targetProfile Address) (Address, uint8) {
	return Derive(KindScoutOffer, []byte(recruiter), []byte(targetProfile))
}

// ContactRequestAddress выводит адрес запроса контакта.
func ContactRequestAddress(requester, profile Address) (Address, uint8) {
	return Derive(KindContactRequest, []byte(requester), []byte(profile))
}

// EscrowAuthorityAddress выводит адрес единственной эскроу-записи.
// Сид фиксированный, владельца нет.
func EscrowAuthorityAddress() (Address, uint8) {
	return Derive(KindEscrowAuthority)
}

// HandleAddress выводит адрес записи-заявки на уникальный handle.
func HandleAddress(handle string) (Address, uint8) {
	return Derive(KindHandle, []byte(handle))
}

// FromPublicKey выводит адрес-идентичность из публичного ключа ed25519:
// blake2b-256 от сырых байт ключа в base58.
func FromPublicKey(pubkey []byte) Address {
	sum := blake2b.Sum256(pubkey)
	return Address(base58.Encode(sum[:]))
}
