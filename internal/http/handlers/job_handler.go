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
	"github.com/ignatzorin/jobledger/internal/usecase/job"
)

type JobHandler struct {
	store    ledger.Store
	create   *job.CreateJobUseCase
	closeJob *job.CloseJobUseCase
}

func NewJobHandler(store ledger.Store, create *job.CreateJobUseCase, closeJob *job.CloseJobUseCase) *JobHandler {
	return &JobHandler{store: store, create: create, closeJob: closeJob}
}

// Create POST /jobs
func (h *JobHandler) Create(c *gin.Context) {
	signer, err := common.CurrentSigner(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		ID             uint64   `json:"id"`
		Title          string   `json:"title" binding:"required"`
		Description    string   `json:"description" binding:"required"`
		RequiredSkills []string `json:"required_skills"`
		SalaryMin      uint64   `json:"salary_min"`
		SalaryMax      uint64   `json:"salary_max"`
		DurationDays   uint16   `json:"duration_days" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.create.Execute(c.Request.Context(), job.CreateJobInput{
		Signer:         signer,
		ID:             req.ID,
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		DurationDays:   req.DurationDays,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	addr, _ := address.JobAddress(signer, req.ID)
	c.JSON(http.StatusCreated, gin.H{"address": addr, "job": result})
}

// Close POST /jobs/:address/close
func (h *JobHandler) Close(c *gin.Context) {
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

	result, err := h.closeJob.Execute(c.Request.Context(), job.CloseJobInput{
		Signer: signer,
		Job:    addr,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get GET /jobs/:address
func (h *JobHandler) Get(c *gin.Context) {
	addr, err := common.AddressParam(c, "address")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rec, err := h.store.Get(c.Request.Context(), addr)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			common.RespondError(c, apperror.ErrJobNotFound)
			return
		}
		common.RespondError(c, err)
		return
	}

	var j entity.Job
	if err := rec.Decode(&j); err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, j)
}
