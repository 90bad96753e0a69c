package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeAlreadyInitialized      ErrorCode = "ALREADY_INITIALIZED"
	ErrCodeNotFound                ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized            ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidArgument         ErrorCode = "INVALID_ARGUMENT"
	ErrCodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrCodeDuplicateApplication    ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeInsufficientFunds       ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodePriceMismatch           ErrorCode = "PRICE_MISMATCH"
	ErrCodeInactiveJob             ErrorCode = "INACTIVE_JOB"
	ErrCodeAlreadyResolved         ErrorCode = "ALREADY_RESOLVED"
	ErrCodeConflict                ErrorCode = "CONFLICT"
	ErrCodeInternal                ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeInvalidArgument, ErrCodePriceMismatch:
		return http.StatusBadRequest
	case ErrCodeAlreadyInitialized, ErrCodeDuplicateApplication, ErrCodeAlreadyResolved, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeInvalidStatusTransition, ErrCodeInactiveJob:
		return http.StatusUnprocessableEntity
	case ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// Code возвращает код ошибки, либо ErrCodeInternal для неизвестных ошибок.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool {
	return Is(err, ErrCodeNotFound)
}

func IsUnauthorized(err error) bool {
	return Is(err, ErrCodeUnauthorized)
}

func IsAlreadyInitialized(err error) bool {
	return Is(err, ErrCodeAlreadyInitialized)
}

var (
	ErrProfileNotFound        = New(ErrCodeNotFound, "профиль не найден")
	ErrJobNotFound            = New(ErrCodeNotFound, "вакансия не найдена")
	ErrApplicationNotFound    = New(ErrCodeNotFound, "отклик не найден")
	ErrScoutOfferNotFound     = New(ErrCodeNotFound, "скаут-предложение не найдено")
	ErrContactRequestNotFound = New(ErrCodeNotFound, "запрос контакта не найден")
	ErrUnauthorized           = New(ErrCodeUnauthorized, "подписант не владеет требуемой ролью")
	ErrInsufficientFunds      = New(ErrCodeInsufficientFunds, "недостаточно средств")
)
