package middleware

import (
	"errors"
	"testing"

	"smart-hr/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"app error keeps message", NewAppError(fiber.StatusBadRequest, "Invalid status", nil, errors.New("x")), fiber.StatusBadRequest, "Invalid status"},
		{"app error default message", NewAppError(fiber.StatusNotFound, "", nil, nil), fiber.StatusNotFound, response.MessageNotFound},
		{"5xx hides the cause but keeps the status", NewAppError(fiber.StatusServiceUnavailable, "AI service is not configured", nil, errors.New("no key")), fiber.StatusServiceUnavailable, response.MessageServiceUnavailable},
		{"body limit", fiber.ErrRequestEntityTooLarge, fiber.StatusRequestEntityTooLarge, "Upload exceeds the size limit"},
		{"fiber 404", fiber.ErrNotFound, fiber.StatusNotFound, fiber.ErrNotFound.Message},
		{"plain error", errors.New("db exploded"), fiber.StatusInternalServerError, response.MessageInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg, _ := normalizeError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
