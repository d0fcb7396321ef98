package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"voxtral-server/internal/api/errors"
)

// ValidateForm binds multipart/query parameters into req and translates
// binding failures into a typed bad-request error.
func ValidateForm(c *gin.Context, req interface{}) error {
	if err := c.ShouldBind(req); err != nil {
		fields := make([]string, 0, 2)

		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrs {
				field := strings.ToLower(fieldError.Field())

				switch fieldError.Tag() {
				case "min":
					fields = append(fields, field+" is too short")
				case "max":
					fields = append(fields, field+" is too long")
				default:
					fields = append(fields, field+" is invalid")
				}
			}
		} else {
			fields = append(fields, "invalid form data")
		}

		return errors.NewBadRequestError("Validation failed: " + strings.Join(fields, ", "))
	}

	return nil
}
