package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errs interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errs,
	})
}

// RespondValidationError turns a gin binding error into a field-level
// error list. Non-validator errors fall back to a single message.
func RespondValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Message: "failed on '" + fe.Tag() + "' validation",
			})
		}
		RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, fields)
		return
	}
	RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
}
