package handler

import (
	"fmt"
	"time"

	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/pkg/response"
	"smart-hr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	uc  usecase.ReportUsecase
	now func() time.Time
}

func NewReportHandler(uc usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc, now: time.Now}
}

func (h *ReportHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/dashboard", h.Dashboard)
	r.Get("/export.csv", h.ExportCSV)
	r.Get("/export.xlsx", h.ExportXLSX)
}

func (h *ReportHandler) Dashboard(c fiber.Ctx) error {
	recent, err := parseQueryIntStrict(c, "recent", 5)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	out, err := h.uc.Dashboard(c.Context(), recent)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ReportHandler) ExportCSV(c fiber.Ctx) error {
	b, err := h.uc.ExportCSV(c.Context(), langOf(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return h.attachment(c, "text/csv; charset=utf-8", "csv", b)
}

func (h *ReportHandler) ExportXLSX(c fiber.Ctx) error {
	b, err := h.uc.ExportXLSX(c.Context(), langOf(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return h.attachment(c, xlsxMIME, "xlsx", b)
}

func (h *ReportHandler) attachment(c fiber.Ctx, mime, ext string, b []byte) error {
	name := fmt.Sprintf("Recruitment_Report_%s.%s", h.now().Format("2006-01-02"), ext)
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Status(fiber.StatusOK).Send(b)
}
