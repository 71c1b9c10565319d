package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/interfaces/http/dto"
)

// SetupValidator configures the binding validator to report field names
// from json tags, so binding errors line up with the wire format.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("uri"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatValidationErrors converts binding validation errors into a
// per-field message map
func FormatValidationErrors(err error) map[string][]string {
	fields := make(map[string][]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			fields[e.Field()] = append(fields[e.Field()], getValidationMessage(e))
		}
	}
	return fields
}

// HandleBindingError responds with a 400 bad request. Validator errors
// carry their per-field messages; anything else (malformed JSON, wrong
// types) gets a generic message.
func HandleBindingError(c *gin.Context, err error) {
	if _, ok := err.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			shared.CodeBadRequest,
			"Request validation failed",
			FormatValidationErrors(err),
		))
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(shared.CodeBadRequest, "Invalid request body"))
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid":
		return "Invalid UUID format"
	case "min":
		return "Must be at least " + e.Param() + " characters"
	case "max":
		return "Must be at most " + e.Param() + " characters"
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
