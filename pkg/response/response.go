package response

import (
	"errors"
	"net/http"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors"`
}

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Response{
		Success: false,
		Error:   message,
	})
}

func ValidationErrors(c *gin.Context, errors []ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  errors,
	})
}

// FromError writes the response for an error returned by a service. Domain
// errors get their user-facing message; anything else is reported as a
// generic 500 and attached to the gin context for the request logger.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		NotFound(c, "Link not found.")
	case errors.Is(err, domain.ErrSlugTaken):
		Conflict(c, "This short link is already in use. Please choose a different one.")
	case errors.Is(err, domain.ErrSlugReserved):
		UnprocessableEntity(c, "This slug is reserved. Please choose a different one.")
	case errors.Is(err, domain.ErrInvalidSlug):
		UnprocessableEntity(c, "Slug must not be empty.")
	case errors.Is(err, domain.ErrInvalidURL):
		UnprocessableEntity(c, "URL must not be empty.")
	case errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(c, "Unauthorized")
	default:
		_ = c.Error(err)
		InternalServerError(c, "internal server error")
	}
}

func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func UnprocessableEntity(c *gin.Context, message string) {
	Error(c, http.StatusUnprocessableEntity, message)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
