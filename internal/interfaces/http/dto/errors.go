package dto

import (
	"net/http"

	"github.com/invoicehub/backend/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation: http.StatusUnprocessableEntity,
	shared.CodeNotFound:   http.StatusNotFound,
	shared.CodeBadRequest: http.StatusBadRequest,
	shared.CodeConflict:   http.StatusConflict,
	shared.CodeInternal:   http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not known.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
