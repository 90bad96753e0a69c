package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobledger/internal/domain/entity"
	"github.com/ignatzorin/jobledger/internal/http/handlers/common"
	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
	"github.com/ignatzorin/jobledger/internal/usecase/scout"
)

type ScoutHandler struct {
	store   ledger.Store
	send    *scout.SendScoutOfferUseCase
	respond *scout.RespondToScoutUseCase
}

func NewScoutHandler(
	store ledger.Store,
	send *scout.SendScoutOfferUseCase,
	respond *scout.RespondToScoutUseCase,
) *ScoutHandler {
	return &ScoutHandler{store: store, send: send, respond: respond}
}

// Send POST /scout-offers
func (h *ScoutHandler) Send(c *gin.Context) {
	signer, err := common.CurrentSigner(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		TargetOwner     string `json:"target_owner" binding:"required"`
		Message         string `json:"message" binding:"required"`
		IncentiveAmount uint64 `json:"incentive_amount" binding:"required,gt=0"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profAddr, _ := address.ProfileAddress(address.Address(req.TargetOwner))
	result, err := h.send.Execute(c.Request.Context(), scout.SendScoutOfferInput{
		Signer:          signer,
		TargetProfile:   profAddr,
		Message:         req.Message,
		IncentiveAmount: req.IncentiveAmount,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	offerAddr, _ := address.ScoutOfferAddress(signer, profAddr)
	c.JSON(http.StatusCreated, gin.H{"address": offerAddr, "offer": result})
}

// Respond POST /scout-offers/:address/respond
func (h *ScoutHandler) Respond(c *gin.Context) {
	signer, err := common.CurrentSigner(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	addr, err := common.AddressParam(c, "address")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Accept *bool `json:"accept" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "требуется accept")
		return
	}

	result, err := h.respond.Execute(c.Request.Context(), scout.RespondToScoutInput{
		Signer: signer,
		Offer:  addr,
		Accept: *req.Accept,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get GET /scout-offers/:address
func (h *ScoutHandler) Get(c *gin.Context) {
	addr, err := common.AddressParam(c, "address")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rec, err := h.store.Get(c.Request.Context(), addr)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			common.RespondError(c, apperror.ErrScoutOfferNotFound)
			return
		}
		common.RespondError(c, err)
		return
	}

	var offer entity.ScoutOffer
	if err := rec.Decode(&offer); err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}
