package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobledger/internal/http/handlers/common"
	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

// LedgerHandler — низкоуровневые чтения реестра: сырые записи и балансы.
type LedgerHandler struct {
	store ledger.Store
}

func NewLedgerHandler(store ledger.Store) *LedgerHandler {
	return &LedgerHandler{store: store}
}

// GetRecord GET /ledger/records/:address
func (h *LedgerHandler) GetRecord(c *gin.Context) {
	addr, err := common.AddressParam(c, "address")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rec, err := h.store.Get(c.Request.Context(), addr)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			common.RespondError(c, apperror.New(apperror.ErrCodeNotFound, "запись не найдена"))
			return
		}
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// GetBalance GET /ledger/balances/:address
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	addr, err := common.AddressParam(c, "address")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	amount, err := h.store.Balance(c.Request.Context(), addr)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": addr, "amount": amount})
}

// Credit POST /ledger/credit — dev-эндпоинт пополнения баланса.
// Маршрут подключается только вне production.
func (h *LedgerHandler) Credit(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
		Amount  uint64 `json:"amount" binding:"required,gt=0"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.store.Credit(c.Request.Context(), address.Address(req.Address), req.Amount); err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": req.Address, "credited": req.Amount})
}
