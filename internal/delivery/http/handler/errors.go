package handler

import (
	"errors"
	"strconv"

	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/pkg/response"
	"smart-hr/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, badRequestMessage(err), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Conflict", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrNotConfigured):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "AI service is not configured", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// badRequestMessage keeps the validation detail the usecase wrapped around
// ErrInvalidInput.
func badRequestMessage(err error) string {
	if err.Error() == usecase.ErrInvalidInput.Error() {
		return "Bad request"
	}
	return err.Error()
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseIDParam(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}

var (
	supportedLangs = []string{"en", "lo", "th"}
	langMatcher    = language.NewMatcher([]language.Tag{
		language.MustParse("en"),
		language.MustParse("lo"),
		language.MustParse("th"),
	})
)

// langOf picks one of the supported languages from ?lang= or
// Accept-Language. An empty result means the default labels.
func langOf(c fiber.Ctx) string {
	raw := c.Query("lang")
	if raw == "" {
		raw = c.Get(fiber.HeaderAcceptLanguage)
	}
	if raw == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	return supportedLangs[idx]
}
