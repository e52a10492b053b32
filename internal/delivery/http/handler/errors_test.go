package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLangOf(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error { return c.SendString(langOf(c)) })

	tests := []struct {
		name, query, header, want string
	}{
		{"query wins", "?lang=th", "lo", "th"},
		{"accept-language", "", "lo-LA,lo;q=0.9,en;q=0.8", "lo"},
		{"region falls back to base", "", "en-GB", "en"},
		{"nothing set", "", "", ""},
		{"unsupported", "", "de-DE", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAcceptLanguage, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			b, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestMapUsecaseError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{usecase.ErrInvalidInput, fiber.StatusBadRequest},
		{usecase.ErrNotFound, fiber.StatusNotFound},
		{usecase.ErrNotConfigured, fiber.StatusServiceUnavailable},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		var appErr *middleware.AppError
		require.True(t, errors.As(mapUsecaseError(tt.err), &appErr), "%v", tt.err)
		assert.Equal(t, tt.want, appErr.StatusCode, "%v", tt.err)
	}
}
