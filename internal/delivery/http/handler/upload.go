package handler

import (
	"encoding/json"
	"strings"

	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// formFile opens an optional multipart file. The returned func closes it and
// is never nil.
func formFile(c fiber.Ctx, field string) (*usecase.File, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}
	return &usecase.File{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Reader:   f,
	}, func() { _ = f.Close() }, nil
}

func isMultipart(c fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// bindPayload decodes the JSON body, or the "payload" field of a multipart
// form.
func bindPayload(c fiber.Ctx, out any) error {
	if isMultipart(c) {
		raw := c.FormValue("payload")
		if strings.TrimSpace(raw) == "" {
			return middleware.NewAppError(fiber.StatusBadRequest, "Missing payload", nil, nil)
		}
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		return nil
	}
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return nil
}
