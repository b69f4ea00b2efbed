package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func messageResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, MessageResponse{Message: message})
}

// validationErrorResponse answers 400 for a request that failed binding.
// Malformed bodies get the message alone, failed rules also list the fields.
func validationErrorResponse(c *gin.Context, err error) {
	response := ValidationErrorResponse{Message: FieldsRequiredMessage}

	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		out := make([]ValidationError, len(verr))
		for i, ferr := range verr {
			out[i] = ValidationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
			if !isRequiredTag(ferr.Tag()) {
				response.Message = InvalidFieldsMessage
			}
		}
		response.Errors = out
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, response)
}

func isRequiredTag(tag string) bool {
	return tag == "required" || tag == "notblank"
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required", "notblank":
		return validationErrorFieldMessage
	case "max":
		return fmt.Sprintf("Maximum length is %v characters", value)
	}
	return tag
}
