package handler

import "github.com/marketplace/backend/internal/interfaces/http/dto"

// APIResponse documents the success envelope in the generated OpenAPI
// schema; handlers write it through dto.NewSuccessResponse.
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse documents failures such as INVALID_QUANTITY, PRODUCT_NOT_FOUND
// and STORAGE_ERROR
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
