package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobledger/internal/pkg/address"
	"github.com/ignatzorin/jobledger/internal/pkg/apperror"
)

// ContextSignerKey — ключ gin.Context, под которым middleware кладёт
// идентичность подписанта.
const ContextSignerKey = "signer"

// ErrSignerNotFound возвращается, когда в контексте нет подписанта.
var ErrSignerNotFound = errors.New("подписант не найден в контексте")

// CurrentSigner извлекает идентичность подписанта из контекста запроса.
func CurrentSigner(c *gin.Context) (address.Address, error) {
	raw, exists := c.Get(ContextSignerKey)
	if !exists {
		return "", ErrSignerNotFound
	}

	signer, ok := raw.(address.Address)
	if !ok || signer == "" {
		return "", ErrSignerNotFound
	}

	return signer, nil
}

// AddressParam читает адрес записи из параметра маршрута.
func AddressParam(c *gin.Context, name string) (address.Address, error) {
	param := c.Param(name)
	if param == "" {
		return "", fmt.Errorf("параметр %s отсутствует", name)
	}
	return address.Address(param), nil
}

// BindAndValidate разбирает JSON тела запроса.
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("ошибка валидации запроса: %w", err)
	}
	return nil
}

// RespondError отдаёт ошибку клиенту. AppError сериализуется со своим
// кодом и статусом, всё остальное маскируется как внутренняя ошибка.
func RespondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "внутренняя ошибка сервера",
		"code":  apperror.ErrCodeInternal,
	})
}

// RespondUnauthorized отдаёт 401.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "требуется авторизация"
	}
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": message,
		"code":  apperror.ErrCodeUnauthorized,
	})
}

// RespondBadRequest отдаёт 400.
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "некорректный запрос"
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": message,
		"code":  apperror.ErrCodeInvalidArgument,
	})
}
