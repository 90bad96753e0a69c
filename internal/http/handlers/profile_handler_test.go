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

	"github.com/ignatzorin/jobledger/internal/http/handlers/common"
	"github.com/ignatzorin/jobledger/internal/ledger/memstore"
	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/usecase/profile"
)

// asSigner подставляет подписанта в контекст, минуя проверку JWT.
func asSigner(signer address.Address) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(common.ContextSignerKey, signer)
		c.Next()
	}
}

func newProfileHandler(store *memstore.Store) *ProfileHandler {
	return NewProfileHandler(
		store,
		profile.NewCreateProfileUseCase(store, nil),
		profile.NewUpdateProfileUseCase(store, nil),
		profile.NewAttachNFTMintUseCase(store, nil),
	)
}

func TestProfileHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newProfileHandler(memstore.New())
	r.POST("/profiles", handler.Create)

	req, _ := http.NewRequest("POST", "/profiles", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileHandler_CreateAndGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newProfileHandler(memstore.New())
	r.POST("/profiles", asSigner("owner-1"), handler.Create)
	r.GET("/profiles/:owner", handler.Get)

	body, _ := json.Marshal(map[string]any{
		"skills":           []string{"Rust", "Solana"},
		"experience_years": 3,
		"region":           "Seoul",
	})
	req, _ := http.NewRequest("POST", "/profiles", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req, _ = http.NewRequest("GET", "/profiles/owner-1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Skills   []string `json:"skills"`
		Region   string   `json:"region"`
		IsPublic bool     `json:"is_public"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"Rust", "Solana"}, got.Skills)
	assert.Equal(t, "Seoul", got.Region)
	assert.True(t, got.IsPublic)
}

func TestProfileHandler_Create_Duplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newProfileHandler(memstore.New())
	r.POST("/profiles", asSigner("owner-1"), handler.Create)

	body := []byte(`{"skills":["Go"]}`)
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req, _ := http.NewRequest("POST", "/profiles", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, "запрос %d", i+1)
	}
}

func TestProfileHandler_Get_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newProfileHandler(memstore.New())
	r.GET("/profiles/:owner", handler.Get)

	req, _ := http.NewRequest("GET", "/profiles/nobody", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileHandler_Get_PrivateHiddenFromStrangers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := memstore.New()
	handler := newProfileHandler(store)
	r.POST("/profiles", asSigner("owner-1"), handler.Create)
	r.PUT("/profiles", asSigner("owner-1"), handler.Update)
	r.GET("/profiles/:owner", handler.Get)
	r.GET("/my/profiles/:owner", asSigner("owner-1"), handler.Get)

	req, _ := http.NewRequest("POST", "/profiles", bytes.NewBufferString(`{"skills":["Go"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req, _ = http.NewRequest("PUT", "/profiles", bytes.NewBufferString(`{"is_public":false}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// анонимный запрос не видит скрытый профиль
	req, _ = http.NewRequest("GET", "/profiles/owner-1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// владелец видит
	req, _ = http.NewRequest("GET", "/my/profiles/owner-1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
