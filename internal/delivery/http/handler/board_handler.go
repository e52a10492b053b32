package handler

import (
	"smart-hr/internal/board"
	"smart-hr/internal/delivery/http/dto"
	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/pkg/response"
	"smart-hr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type BoardHandler struct {
	uc usecase.BoardUsecase
}

func NewBoardHandler(uc usecase.BoardUsecase) *BoardHandler {
	return &BoardHandler{uc: uc}
}

type dropRequest struct {
	ActiveID  string         `json:"active_id"`
	OverID    string         `json:"over_id"`
	GestureID string         `json:"gesture_id"`
	Gesture   *board.Gesture `json:"gesture"`
}

func (h *BoardHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("", h.Columns)
	r.Get("/layout", h.Layout)
	r.Post("/drop", h.Drop)
	r.Post("/reload", h.Reload)
	r.Get("/dirty", h.Dirty)
	r.Post("/resync", h.Resync)
}

func (h *BoardHandler) Columns(c fiber.Ctx) error {
	lang := langOf(c)
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewColumns(h.uc.Columns(lang), lang))
}

func (h *BoardHandler) Layout(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewLayout(h.uc.Layout(langOf(c))))
}

func (h *BoardHandler) Drop(c fiber.Ctx) error {
	var req dropRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	res, err := h.uc.Drop(c.Context(), usecase.DropRequest{
		ActiveID:  req.ActiveID,
		OverID:    req.OverID,
		GestureID: req.GestureID,
		Gesture:   req.Gesture,
		Actor:     middleware.Actor(c),
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *BoardHandler) Reload(c fiber.Ctx) error {
	if err := h.uc.Reload(c.Context()); err != nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Could not reload applications", nil, err)
	}
	lang := langOf(c)
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewColumns(h.uc.Columns(lang), lang))
}

func (h *BoardHandler) Dirty(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Dirty())
}

func (h *BoardHandler) Resync(c fiber.Ctx) error {
	report, err := h.uc.Resync(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}
