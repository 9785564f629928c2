// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"
	"runtime/debug"

	"user_management_backend/platform/apperr"
	"user_management_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const (
	msgInternal = "Internal Server Error"

	errorSettingsKey = "httpkit.errorSettings"
)

// Pagination describes a page window in list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message,omitempty"`
	Code       apperr.Code         `json:"code,omitempty"`
	Data       interface{}         `json:"data,omitempty"`
	Errors     []apperr.FieldError `json:"errors,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
	Stack      string              `json:"stack,omitempty"`
}

type errorSettings struct {
	log         *logger.Logger
	development bool
}

// JSON sends an envelope with the given status code.
func JSON(c *gin.Context, status int, payload Envelope) {
	c.JSON(status, payload)
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Paginated sends a 200 success envelope with a pagination block.
func Paginated(c *gin.Context, data interface{}, page Pagination, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data, Pagination: &page})
}

// Error sends a failure envelope and aborts the handler chain.
func Error(c *gin.Context, status int, code apperr.Code, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Code: code, Message: message})
}

// ErrorHandling installs the logger and environment used by HandleError
// and Recovery. It must run before any handler that reports errors.
func ErrorHandling(log *logger.Logger, development bool) gin.HandlerFunc {
	settings := &errorSettings{log: log, development: development}
	return func(c *gin.Context) {
		c.Set(errorSettingsKey, settings)
		c.Next()
	}
}

// HandleError maps domain errors to HTTP responses.
// A typed *apperr.Error is rendered with its status, code and field errors.
// Anything else, or an apperr of kind Internal, is logged and rendered as a
// generic 500 that only carries a trace in development.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := apperr.As(err); ok && domainErr.Kind != apperr.KindInternal && domainErr.Kind != apperr.KindUnknown {
		c.AbortWithStatusJSON(domainErr.HTTPStatus(), Envelope{
			Success: false,
			Code:    domainErr.Code,
			Message: domainErr.Message,
			Errors:  domainErr.Fields,
		})
		return true
	}

	settings := settingsFrom(c)
	if settings.log != nil {
		settings.log.WithContext(c.Request.Context()).HTTPError(c.Request.Method, c.Request.URL.Path, http.StatusInternalServerError, err, c.ClientIP())
	}
	_ = c.Error(err)

	body := Envelope{Success: false, Code: apperr.CodeInternal, Message: msgInternal}
	if settings.development {
		body.Stack = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	return true
}

// Recovery converts panics into the generic 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		settings := settingsFrom(c)
		if settings.log != nil {
			settings.log.WithContext(c.Request.Context()).Error("panic_recovered",
				"path", c.Request.URL.Path,
				"panic", recovered,
			)
		}

		body := Envelope{Success: false, Code: apperr.CodeInternal, Message: msgInternal}
		if settings.development {
			body.Stack = string(debug.Stack())
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}

// NotFound renders the envelope for unknown routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		Error(c, http.StatusNotFound, apperr.CodeNotFound, "Route not found")
	}
}

func settingsFrom(c *gin.Context) *errorSettings {
	if value, ok := c.Get(errorSettingsKey); ok {
		if settings, ok := value.(*errorSettings); ok {
			return settings
		}
	}
	return &errorSettings{}
}
