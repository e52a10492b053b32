package middleware

import (
	"errors"
	"log"

	"smart-hr/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("[HTTP] panic recovered rid=%s method=%s path=%s panic=%v", RequestID(c), c.Method(), c.Path(), r)
				err = response.Error(c, fiber.StatusInternalServerError, "", nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			m.logger.Printf("[HTTP] request failed rid=%s method=%s path=%s status=%d err=%v", RequestID(c), c.Method(), c.Path(), status, err)
		}
		return response.Error(c, status, msg, data)
	}
}

// normalizeError never lets a 5xx cause reach the client; only the status
// survives, so an unconfigured AI still reads as 503.
func normalizeError(err error) (int, string, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode > 0 {
		if appErr.StatusCode >= 500 {
			return appErr.StatusCode, response.DefaultMessage(appErr.StatusCode), nil
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessage(appErr.StatusCode)
		}
		return appErr.StatusCode, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code > 0 {
		switch {
		case fiberErr.Code >= 500:
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		case fiberErr.Code == fiber.StatusRequestEntityTooLarge:
			return fiberErr.Code, "Upload exceeds the size limit", nil
		case fiberErr.Message != "":
			return fiberErr.Code, fiberErr.Message, nil
		default:
			return fiberErr.Code, response.DefaultMessage(fiberErr.Code), nil
		}
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
