package handler

import (
	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/domain/job"
	"smart-hr/internal/pkg/response"
	"smart-hr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	uc usecase.JobUsecase
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	if r == nil {
		return
	}
	r.Get("", h.List)
	r.Get("/:id", h.Get)
	r.Post("", admin, h.Create)
	r.Put("/:id", admin, h.Update)
	r.Delete("/:id", admin, h.Delete)
}

func (h *JobHandler) List(c fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	j, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	var req job.Draft
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	j, err := h.uc.Create(c.Context(), req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", j)
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req job.Draft
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	j, err := h.uc.Update(c.Context(), id, req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "deleted", nil)
}
