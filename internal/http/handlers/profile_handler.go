package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobledger/internal/domain/entity"
	"github.com/ignatzorin/jobledger/internal/domain/valueobject"
	"github.com/ignatzorin/jobledger/internal/http/handlers/common"
	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
	"github.com/ignatzorin/jobledger/internal/usecase/profile"
)

type ProfileHandler struct {
	store  ledger.Store
	create *profile.CreateProfileUseCase
	update *profile.UpdateProfileUseCase
	attach *profile.AttachNFTMintUseCase
}

func NewProfileHandler(
	store ledger.Store,
	create *profile.CreateProfileUseCase,
	update *profile.UpdateProfileUseCase,
	attach *profile.AttachNFTMintUseCase,
) *ProfileHandler {
	return &ProfileHandler{store: store, create: create, update: update, attach: attach}
}

type priceTierRequest struct {
	Price       uint64 `json:"price" binding:"required,gt=0"`
	Description string `json:"description"`
}

func toPriceTiers(tiers []priceTierRequest) []valueobject.ContactPriceTier {
	if tiers == nil {
		return nil
	}
	out := make([]valueobject.ContactPriceTier, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, valueobject.ContactPriceTier{Price: t.Price, Description: t.Description})
	}
	return out
}

// Create POST /profiles
func (h *ProfileHandler) Create(c *gin.Context) {
	signer, err := common.CurrentSigner(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		Skills            []string           `json:"skills"`
		ExperienceYears   uint16             `json:"experience_years"`
		Region            string             `json:"region"`
		Bio               string             `json:"bio"`
		Handle            string             `json:"handle"`
		ContactPrices     []priceTierRequest `json:"contact_prices"`
		ResponseTimeHours uint16             `json:"response_time_hours"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.create.Execute(c.Request.Context(), profile.CreateProfileInput{
		Signer:            signer,
		Owner:             signer,
		Skills:            req.Skills,
		ExperienceYears:   req.ExperienceYears,
		Region:            req.Region,
		Bio:               req.Bio,
		Handle:            req.Handle,
		ContactPrices:     toPriceTiers(req.ContactPrices),
		ResponseTimeHours: req.ResponseTimeHours,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	profAddr, _ := address.ProfileAddress(signer)
	c.JSON(http.StatusCreated, gin.H{"address": profAddr, "profile": result})
}

// Update PUT /profiles
func (h *ProfileHandler) Update(c *gin.Context) {
	signer, err := common.CurrentSigner(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		Skills            *[]string           `json:"skills"`
		Bio               *string             `json:"bio"`
		IsPublic          *bool               `json:"is_public"`
		ContactPrices     *[]priceTierRequest `json:"contact_prices"`
		ResponseTimeHours *uint16             `json:"response_time_hours"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	input := profile.UpdateProfileInput{
		Signer:            signer,
		Owner:             signer,
		Skills:            req.Skills,
		Bio:               req.Bio,
		IsPublic:          req.IsPublic,
		ResponseTimeHours: req.ResponseTimeHours,
	}
	if req.ContactPrices != nil {
		tiers := toPriceTiers(*req.ContactPrices)
		input.ContactPrices = &tiers
	}

	result, err := h.update.Execute(c.Request.Context(), input)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AttachNFT POST /profiles/nft
func (h *ProfileHandler) AttachNFT(c *gin.Context) {
	signer, err := common.CurrentSigner(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		Mint string `json:"mint" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "требуется mint")
		return
	}

	result, err := h.attach.Execute(c.Request.Context(), profile.AttachNFTMintInput{
		Signer: signer,
		Owner:  signer,
		Mint:   address.Address(req.Mint),
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get GET /profiles/:owner — читает профиль по адресу владельца.
// Непубличный профиль отдаётся только самому владельцу.
func (h *ProfileHandler) Get(c *gin.Context) {
	owner, err := common.AddressParam(c, "owner")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	addr, _ := address.ProfileAddress(owner)
	rec, err := h.store.Get(c.Request.Context(), addr)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			common.RespondError(c, apperror.ErrProfileNotFound)
			return
		}
		common.RespondError(c, err)
		return
	}

	var prof entity.Profile
	if err := rec.Decode(&prof); err != nil {
		common.RespondError(c, err)
		return
	}

	if !prof.IsPublic {
		signer, err := common.CurrentSigner(c)
		if err != nil || signer != prof.Owner {
			common.RespondError(c, apperror.ErrProfileNotFound)
			return
		}
	}

	c.JSON(http.StatusOK, prof)
}
