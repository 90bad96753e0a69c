package valueobject

import "github.com/ignatzorin/jobledger/internal/pkg/apperror"

const (
	maxContactPriceTiers  = 5
	maxTierDescriptionLen = 50
)

// ContactPriceTier — один тариф платного контакта в профиле.
// Цена хранится в минимальных единицах валюты.
type ContactPriceTier struct {
	Price       uint64 `json:"price"`
	Description string `json:"description"`
}

// NewContactPrices валидирует набор тарифов профиля.
func NewContactPrices(tiers []ContactPriceTier) ([]ContactPriceTier, error) {
	if len(tiers) > maxContactPriceTiers {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "слишком много тарифов контакта (максимум 5)")
	}
	for _, tier := range tiers {
		if tier.Price == 0 {
			return nil, apperror.New(apperror.ErrCodeInvalidArgument, "цена тарифа должна быть положительной")
		}
		if len(tier.Description) > maxTierDescriptionLen {
			return nil, apperror.New(apperror.ErrCodeInvalidArgument, "описание тарифа слишком длинное (максимум 50 символов)")
		}
	}
	return tiers, nil
}

// ContainsPrice проверяет, что цена совпадает с одним из тарифов.
func ContainsPrice(tiers []ContactPriceTier, price uint64) bool {
	for _, tier := range tiers {
		if tier.Price == price {
			return true
		}
	}
	return false
}
