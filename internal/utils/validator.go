package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorDetail is one failed binding rule in a request body.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BindAndValidate binds the JSON body into obj and validates it. On
// failure it writes the 400 envelope and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var details []ValidationErrorDetail
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			msg := fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", e.Field(), e.Tag())
			switch e.Tag() {
			case "required":
				msg = fmt.Sprintf("Field '%s' is required", e.Field())
			case "email":
				msg = fmt.Sprintf("Field '%s' must be a valid email address", e.Field())
			case "gt":
				msg = fmt.Sprintf("Field '%s' must be greater than %s", e.Field(), e.Param())
			case "oneof":
				msg = fmt.Sprintf("Field '%s' must be one of: %s", e.Field(), e.Param())
			}
			details = append(details, ValidationErrorDetail{Field: e.Field(), Message: msg})
		}
	} else {
		details = append(details, ValidationErrorDetail{
			Field:   "body",
			Message: "Malformed JSON or invalid request body",
		})
	}

	c.JSON(http.StatusBadRequest, Response{
		Status:  http.StatusBadRequest,
		Message: "Invalid request parameters",
		Data:    details,
	})
	return false
}
