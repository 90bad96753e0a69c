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
	"github.com/ignatzorin/jobledger/internal/usecase/payment"
)

type PaymentHandler struct {
	store    ledger.Store
	process  *payment.ProcessPaymentUseCase
	complete *payment.CompletePaymentUseCase
	refund   *payment.RefundPaymentUseCase
}

func NewPaymentHandler(
	store ledger.Store,
	process *payment.ProcessPaymentUseCase,
	complete *payment.CompletePaymentUseCase,
	refund *payment.RefundPaymentUseCase,
) *PaymentHandler {
	return &PaymentHandler{store: store, process: process, complete: complete, refund: refund}
}

// Process POST /contact-requests — оплата доступа к контактам профиля.
func (h *PaymentHandler) Process(c *gin.Context) {
	signer, err := common.CurrentSigner(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		ProfileOwner string `json:"profile_owner" binding:"required"`
		Price        uint64 `json:"price" binding:"required,gt=0"`
		Message      string `json:"message"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profAddr, _ := address.ProfileAddress(address.Address(req.ProfileOwner))
	result, err := h.process.Execute(c.Request.Context(), payment.ProcessPaymentInput{
		Signer:  signer,
		Profile: profAddr,
		Price:   req.Price,
		Message: req.Message,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	reqAddr, _ := address.ContactRequestAddress(signer, profAddr)
	c.JSON(http.StatusCreated, gin.H{"address": reqAddr, "contact_request": result})
}

// Complete POST /contact-requests/:address/complete
func (h *PaymentHandler) Complete(c *gin.Context) {
	h.resolve(c, func(input payment.ResolvePaymentInput) (*entity.ContactRequest, error) {
		return h.complete.Execute(c.Request.Context(), input)
	})
}

// Refund POST /contact-requests/:address/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	h.resolve(c, func(input payment.ResolvePaymentInput) (*entity.ContactRequest, error) {
		return h.refund.Execute(c.Request.Context(), input)
	})
}

func (h *PaymentHandler) resolve(c *gin.Context, exec func(payment.ResolvePaymentInput) (*entity.ContactRequest, error)) {
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

	result, err := exec(payment.ResolvePaymentInput{Signer: signer, ContactRequest: addr})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get GET /contact-requests/:address
func (h *PaymentHandler) Get(c *gin.Context) {
	addr, err := common.AddressParam(c, "address")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rec, err := h.store.Get(c.Request.Context(), addr)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			common.RespondError(c, apperror.ErrContactRequestNotFound)
			return
		}
		common.RespondError(c, err)
		return
	}

	var req entity.ContactRequest
	if err := rec.Decode(&req); err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}
