package handler

import (
	"errors"

	"smart-hr/internal/delivery/http/dto"
	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/pkg/response"
	"smart-hr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc    usecase.AuthUsecase
	users usecase.UserUsecase
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAuthHandler(uc usecase.AuthUsecase, users usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{uc: uc, users: users}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	sess, err := h.uc.Login(c.Context(), usecase.LoginInput{Username: req.Username, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(sess, true))
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get("Authorization"))
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	sess, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(sess, false))
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	usr, err := h.users.GetMe(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid username or password", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
