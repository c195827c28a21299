// Package apperr defines the application error taxonomy and its mapping to
// HTTP responses.
package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cinelog/internal/logger"
)

// Error codes used across the API.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeForbidden  = "FORBIDDEN"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL_ERROR"
	CodeDatabase   = "DATABASE_ERROR"
)

// Error represents a structured error with HTTP context
type Error struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Common error constructors

func NewValidation(message string, field string) *Error {
	return &Error{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Context:    map[string]interface{}{"field": field},
	}
}

func NewNotFound(resource string, id interface{}) *Error {
	return &Error{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
		Context:    map[string]interface{}{"resource": resource, "id": id},
	}
}

func NewForbidden(message string) *Error {
	return &Error{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func NewConflict(message string) *Error {
	return &Error{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func NewInternal(message string, cause error) *Error {
	return &Error{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewDatabase(operation string, cause error) *Error {
	return &Error{
		Code:       CodeDatabase,
		Message:    "Database operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Context:    map[string]interface{}{"operation": operation},
		Cause:      cause,
	}
}

// IsNotFound reports whether err is a NOT_FOUND application error.
func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == CodeNotFound
}

// IsConflict reports whether err is a CONFLICT application error.
func IsConflict(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == CodeConflict
}

// FromDB normalizes a driver or GORM error into an application error.
// Unique constraint violations become conflicts regardless of backend
// (sqlite reports "UNIQUE constraint failed", postgres SQLSTATE 23505).
func FromDB(operation string, err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewConflict("duplicate record")
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505") {
		return NewConflict("duplicate record")
	}

	return NewDatabase(operation, err)
}

// ToGinResponse sends the error as a standardized JSON response
func (e *Error) ToGinResponse(c *gin.Context) {
	statusCode := e.HTTPStatus
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	response := gin.H{
		"message": e.Message,
		"code":    e.Code,
	}

	if len(e.Context) > 0 {
		response["details"] = e.Context
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		response["request_id"] = requestID
	}

	logger.DebugStructured("HTTP error response",
		logger.Int("status", statusCode),
		logger.String("code", e.Code),
		logger.String("message", e.Message),
		logger.String("path", c.Request.URL.Path),
		logger.String("method", c.Request.Method))

	c.JSON(statusCode, response)
}

// Respond maps any error to a JSON response. Unstructured errors are
// reported as internal errors.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		appErr.ToGinResponse(c)
		return
	}

	logger.ErrorStructured("unstructured error",
		logger.Err("error", err),
		logger.String("path", c.Request.URL.Path))
	NewInternal(err.Error(), err).ToGinResponse(c)
}

// Recovery converts panics into structured 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var err error
				switch v := r.(type) {
				case error:
					err = v
				case string:
					err = errors.New(v)
				default:
					err = errors.New("unknown panic")
				}

				logger.ErrorStructured("panic recovered",
					logger.Err("error", err),
					logger.String("request_path", c.Request.URL.Path),
					logger.String("request_method", c.Request.Method))

				NewInternal("internal server error", err).ToGinResponse(c)
				c.Abort()
			}
		}()

		c.Next()
	}
}
