package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/manhnguyen41/Adaptive-Learning/internal/apperrors"
)

// SuccessResponse is the standard success envelope every handler returns.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the standard error envelope, carrying the AppError kind
// and message.
type ErrorResponse struct {
	Success bool               `json:"success"`
	Error   apperrors.AppError `json:"error"`
}

// RespondSuccess sends a 200 with data wrapped in SuccessResponse.
func RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

// RespondAppError maps an AppError's kind to an HTTP status and sends the
// standard error envelope. Unknown error kinds map to 500.
func RespondAppError(c *gin.Context, err *apperrors.AppError) {
	c.JSON(httpStatusFor(err.Kind), ErrorResponse{Success: false, Error: *err})
}

func httpStatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.NoResponses, apperrors.UnknownItem, apperrors.EmptyExam, apperrors.InvalidThreshold:
		return http.StatusBadRequest
	case apperrors.NumericInstability:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// LogRequestError logs an error with a correlation ID, matching the
// teacher's LogError helper.
func LogRequestError(context string, err error) {
	requestID := uuid.New().String()
	log.Printf("[ERROR][%s] %s: %v", requestID, context, err)
}

// SafeHandler wraps a handler with panic recovery so one bad request never
// crashes the server.
func SafeHandler(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				LogRequestError("panic", nil)
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Success: false,
					Error:   apperrors.AppError{Kind: "internal_error", Message: "internal server error"},
				})
			}
		}()
		handler(c)
	}
}
