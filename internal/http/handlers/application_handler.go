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
	"github.com/ignatzorin/jobledger/internal/usecase/application"
)

type ApplicationHandler struct {
	store  ledger.Store
	apply  *application.ApplyToJobUseCase
	status *application.UpdateStatusUseCase
}

func NewApplicationHandler(
	store ledger.Store,
	apply *application.ApplyToJobUseCase,
	status *application.UpdateStatusUseCase,
) *ApplicationHandler {
	return &ApplicationHandler{store: store, apply: apply, status: status}
}

// Apply POST /jobs/:address/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	signer, err := common.CurrentSigner(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	jobAddr, err := common.AddressParam(c, "address")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		CoverLetter string `json:"cover_letter"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profAddr, _ := address.ProfileAddress(signer)
	result, err := h.apply.Execute(c.Request.Context(), application.ApplyToJobInput{
		Signer:      signer,
		Job:         jobAddr,
		Profile:     profAddr,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	appAddr, _ := address.ApplicationAddress(jobAddr, signer)
	c.JSON(http.StatusCreated, gin.H{"address": appAddr, "application": result})
}

// UpdateStatus PUT /applications/:address/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
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
		Status string `json:"status" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "требуется status")
		return
	}

	result, err := h.status.Execute(c.Request.Context(), application.UpdateStatusInput{
		Signer:      signer,
		Application: addr,
		NewStatus:   req.Status,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get GET /applications/:address
func (h *ApplicationHandler) Get(c *gin.Context) {
	addr, err := common.AddressParam(c, "address")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rec, err := h.store.Get(c.Request.Context(), addr)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			common.RespondError(c, apperror.ErrApplicationNotFound)
			return
		}
		common.RespondError(c, err)
		return
	}

	var app entity.Application
	if err := rec.Decode(&app); err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
