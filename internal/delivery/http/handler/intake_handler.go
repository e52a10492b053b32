package handler

import (
	"smart-hr/internal/delivery/http/dto"
	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/intake"
	"smart-hr/internal/pkg/response"
	"smart-hr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// IntakeHandler serves the public careers page; no authentication.
type IntakeHandler struct {
	uc usecase.IntakeUsecase
}

func NewIntakeHandler(uc usecase.IntakeUsecase) *IntakeHandler {
	return &IntakeHandler{uc: uc}
}

func (h *IntakeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs", h.Jobs)
	r.Post("/applications", h.Submit)
}

func (h *IntakeHandler) Jobs(c fiber.Ctx) error {
	out, err := h.uc.PublicJobs(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *IntakeHandler) Submit(c fiber.Ctx) error {
	if !isMultipart(c) {
		return middleware.NewAppError(fiber.StatusUnsupportedMediaType, "multipart/form-data required", nil, nil)
	}
	var form intake.Form
	if err := bindPayload(c, &form); err != nil {
		return err
	}
	resume, closeFn, err := formFile(c, "resume")
	if err != nil {
		return err
	}
	defer closeFn()

	lang := langOf(c)
	a, err := h.uc.Submit(c.Context(), usecase.SubmitInput{Form: form, Resume: resume, Lang: lang})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Application submitted", dto.NewApplicationResponse(a, lang))
}
