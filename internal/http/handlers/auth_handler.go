package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobledger/internal/http/handlers/common"
	"github.com/ignatzorin/jobledger/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Challenge POST /auth/challenge
func (h *AuthHandler) Challenge(c *gin.Context) {
	var req struct {
		PublicKey string `json:"public_key" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "требуется public_key")
		return
	}

	nonce, err := h.auth.CreateChallenge(req.PublicKey)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// Verify POST /auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req struct {
		PublicKey string `json:"public_key" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "требуются public_key и signature")
		return
	}

	result, err := h.auth.VerifyChallenge(req.PublicKey, req.Signature)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
