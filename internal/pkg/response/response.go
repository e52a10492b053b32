package response

import "github.com/gofiber/fiber/v3"

// SemanticResponse is the envelope of every JSON reply. Meta is only set on
// paged lists.
type SemanticResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    *Page       `json:"meta,omitempty"`
}

type Page struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

const (
	MessageOK                  = "ok"
	MessageCreated             = "created"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessagePayloadTooLarge     = "payload too large"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageInternalServerError = "internal server error"
	MessageServiceUnavailable  = "service unavailable"
	MessageError               = "error"
)

func Success(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data, nil)
}

func Error(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data, nil)
}

// Paged replies 200 with a page of items and its position in the full
// result.
func Paged(c fiber.Ctx, items interface{}, page Page) error {
	return write(c, fiber.StatusOK, MessageOK, items, &page)
}

func write(c fiber.Ctx, status int, message string, data interface{}, page *Page) error {
	st := normalizeStatus(status)
	msg := message
	if msg == "" {
		msg = DefaultMessage(st)
	}
	return c.Status(st).JSON(SemanticResponse{Status: st, Message: msg, Data: data, Meta: page})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func DefaultMessage(status int) string {
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusCreated:
		return MessageCreated
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusConflict:
		return MessageConflict
	case fiber.StatusRequestEntityTooLarge:
		return MessagePayloadTooLarge
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	case fiber.StatusServiceUnavailable:
		return MessageServiceUnavailable
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
