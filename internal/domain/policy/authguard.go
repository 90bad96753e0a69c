// Package policy содержит сквозные проверки полномочий подписанта.
package policy

import (
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

// Role — роль, которую подписант обязан держать для запрошенной мутации.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleRecruiter Role = "recruiter"
	RoleApplicant Role = "applicant"
	RoleRequester Role = "requester"
)

// RequireSigner сравнивает подписанта с identity, сохранённой в записи,
// на которую ссылается операция. Несовпадение прерывает всю операцию
// до постановки любой записи в батч.
func RequireSigner(signer, required address.Address, role Role) error {
	if signer == "" {
		return apperror.New(apperror.ErrCodeUnauthorized, "операция требует подписанта")
	}
	if signer != required {
		return apperror.New(apperror.ErrCodeUnauthorized, "подписант не является "+roleName(role))
	}
	return nil
}

func roleName(role Role) string {
	switch role {
	case RoleOwner:
		return "владельцем профиля"
	case RoleRecruiter:
		return "рекрутером вакансии"
	case RoleApplicant:
		return "автором отклика"
	case RoleRequester:
		return "инициатором запроса"
	default:
		return string(role)
	}
}
