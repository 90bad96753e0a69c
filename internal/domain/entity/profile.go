package entity

import (
	"strings"
	"time"

	"github.com/ignatzorin/jobledger/internal/domain/valueobject"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

const (
	maxSkills                = 10
	maxSkillLen              = 50
	maxRegionLen             = 50
	maxBioLen                = 500
	minHandleLen             = 3
	maxHandleLen             = 30
	maxResponseTimeHours     = 168
	defaultResponseTimeHours = 24
)

// Profile — профиль владельца, ровно один на identity.
type Profile struct {
	Owner             address.Address                `json:"owner"`
	Skills            []string                       `json:"skills"`
	ExperienceYears   uint16                         `json:"experience_years"`
	Region            string                         `json:"region"`
	Bio               string                         `json:"bio"`
	Handle            string                         `json:"handle,omitempty"`
	ContactPrices     []valueobject.ContactPriceTier `json:"contact_prices,omitempty"`
	ResponseTimeHours uint16                         `json:"response_time_hours"`
	NFTMint           *address.Address               `json:"nft_mint,omitempty"`
	IsPublic          bool                           `json:"is_public"`
	CreatedAt         time.Time                      `json:"created_at"`
	UpdatedAt         time.Time                      `json:"updated_at"`
}

// NewProfile создаёт профиль с is_public = true.
// Handle необязателен; при указании нормализуется в нижний регистр.
// response_time_hours = 0 означает «не указано», подставляется дефолт.
func NewProfile(owner address.Address, skills []string, experienceYears uint16, region, bio, handle string,
	contactPrices []valueobject.ContactPriceTier, responseTimeHours uint16, now time.Time) (*Profile, error) {

	if err := validateSkills(skills); err != nil {
		return nil, err
	}
	if len(region) > maxRegionLen {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "регион слишком длинный (максимум 50 символов)")
	}
	if len(bio) > maxBioLen {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "биография слишком длинная (максимум 500 символов)")
	}

	if handle != "" {
		handle = strings.ToLower(handle)
		if len(handle) < minHandleLen || len(handle) > maxHandleLen {
			return nil, apperror.New(apperror.ErrCodeInvalidArgument, "handle должен быть длиной от 3 до 30 символов")
		}
	}

	prices, err := valueobject.NewContactPrices(contactPrices)
	if err != nil {
		return nil, err
	}

	if responseTimeHours == 0 {
		responseTimeHours = defaultResponseTimeHours
	}
	if responseTimeHours > maxResponseTimeHours {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "время ответа должно быть от 1 до 168 часов")
	}

	return &Profile{
		Owner:             owner,
		Skills:            skills,
		ExperienceYears:   experienceYears,
		Region:            region,
		Bio:               bio,
		Handle:            handle,
		ContactPrices:     prices,
		ResponseTimeHours: responseTimeHours,
		IsPublic:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ProfileUpdate описывает частичное обновление: nil-поля не меняются.
type ProfileUpdate struct {
	Skills            *[]string
	Bio               *string
	IsPublic          *bool
	ContactPrices     *[]valueobject.ContactPriceTier
	ResponseTimeHours *uint16
}

// Apply применяет частичное обновление к профилю.
func (p *Profile) Apply(upd ProfileUpdate, now time.Time) error {
	if upd.Skills != nil {
		if err := validateSkills(*upd.Skills); err != nil {
			return err
		}
		p.Skills = *upd.Skills
	}
	if upd.Bio != nil {
		if len(*upd.Bio) > maxBioLen {
			return apperror.New(apperror.ErrCodeInvalidArgument, "биография слишком длинная (максимум 500 символов)")
		}
		p.Bio = *upd.Bio
	}
	if upd.IsPublic != nil {
		p.IsPublic = *upd.IsPublic
	}
	if upd.ContactPrices != nil {
		prices, err := valueobject.NewContactPrices(*upd.ContactPrices)
		if err != nil {
			return err
		}
		p.ContactPrices = prices
	}
	if upd.ResponseTimeHours != nil {
		hours := *upd.ResponseTimeHours
		if hours == 0 || hours > maxResponseTimeHours {
			return apperror.New(apperror.ErrCodeInvalidArgument, "время ответа должно быть от 1 до 168 часов")
		}
		p.ResponseTimeHours = hours
	}
	p.UpdatedAt = now
	return nil
}

// AttachNFTMint сохраняет ссылку на внешне созданный NFT. Ссылка
// устанавливается только один раз, сам минт движок не валидирует.
func (p *Profile) AttachNFTMint(mint address.Address, now time.Time) error {
	if p.NFTMint != nil {
		return apperror.New(apperror.ErrCodeAlreadyInitialized, "nft_mint уже привязан к профилю")
	}
	p.NFTMint = &mint
	p.UpdatedAt = now
	return nil
}

func (p *Profile) IsOwnedBy(signer address.Address) bool {
	return p.Owner == signer
}

func validateSkills(skills []string) error {
	if len(skills) > maxSkills {
		return apperror.New(apperror.ErrCodeInvalidArgument, "слишком много навыков (максимум 10)")
	}
	for _, skill := range skills {
		if skill == "" || len(skill) > maxSkillLen {
			return apperror.New(apperror.ErrCodeInvalidArgument, "навык должен быть длиной от 1 до 50 символов")
		}
	}
	return nil
}
