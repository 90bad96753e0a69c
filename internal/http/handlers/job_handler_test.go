package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/jobledger/internal/ledger/memstore"
	"github.com/ignatzorin/jobledger/internal/usecase/job"
)

func newJobHandler(store *memstore.Store) *JobHandler {
	return NewJobHandler(
		store,
		job.NewCreateJobUseCase(store, nil),
		job.NewCloseJobUseCase(store, nil),
	)
}

func TestJobHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newJobHandler(memstore.New())
	r.POST("/jobs", handler.Create)

	req, _ := http.NewRequest("POST", "/jobs", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJobHandler_CreateCloseFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newJobHandler(memstore.New())
	r.POST("/jobs", asSigner("recruiter-1"), handler.Create)
	r.POST("/jobs/:address/close", asSigner("recruiter-1"), handler.Close)
	r.GET("/jobs/:address", handler.Get)

	body, _ := json.Marshal(map[string]any{
		"id":            1,
		"title":         "Go Developer",
		"description":   "Описание вакансии",
		"salary_min":    80_000,
		"salary_max":    120_000,
		"duration_days": 30,
	})
	req, _ := http.NewRequest("POST", "/jobs", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Address string `json:"address"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Address)

	req, _ = http.NewRequest("POST", "/jobs/"+created.Address+"/close", bytes.NewBufferString(`{}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("GET", "/jobs/"+created.Address, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		IsActive bool `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.False(t, got.IsActive)
}

func TestJobHandler_Close_ByStranger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newJobHandler(memstore.New())
	r.POST("/jobs", asSigner("recruiter-1"), handler.Create)
	r.POST("/jobs/:address/close", asSigner("intruder"), handler.Close)

	body := []byte(`{"id":1,"title":"t","description":"d","salary_min":1,"salary_max":2,"duration_days":30}`)
	req, _ := http.NewRequest("POST", "/jobs", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Address string `json:"address"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req, _ = http.NewRequest("POST", "/jobs/"+created.Address+"/close", bytes.NewBufferString(`{}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
