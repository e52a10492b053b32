package handler

import (
	"strings"
	"time"

	"smart-hr/internal/delivery/http/dto"
	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/domain/application"
	"smart-hr/internal/pkg/response"
	"smart-hr/internal/repository"
	"smart-hr/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	apps        usecase.ApplicationUsecase
	transitions usecase.TransitionUsecase
}

func NewApplicationHandler(apps usecase.ApplicationUsecase, transitions usecase.TransitionUsecase) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, transitions: transitions}
}

type createApplicationRequest struct {
	Candidate  application.Candidate `json:"candidate"`
	JobID      string                `json:"job_id"`
	MatchScore *int                  `json:"ai_match_score"`
	Summary    string                `json:"ai_summary"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type profileRequest struct {
	Candidate application.Candidate `json:"candidate"`
	Summary   string                `json:"ai_summary"`
}

type interviewRequest struct {
	Date     string `json:"interview_date"`
	Type     string `json:"interview_type"`
	Location string `json:"interview_location"`
	Message  string `json:"message"`
	Lang     string `json:"lang"`
}

// RegisterRoutes mounts the application routes. Manual entry and CV parsing
// are open to every authenticated role; the rest run behind admin.
func (h *ApplicationHandler) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	if r == nil {
		return
	}
	r.Post("", h.Create)
	r.Post("/parse-cv", h.ParseCV)

	r.Get("", admin, h.Search)
	r.Get("/:id", admin, h.Get)
	r.Patch("/:id/status", admin, h.UpdateStatus)
	r.Put("/:id/profile", admin, h.UpdateProfile)
	r.Delete("/:id", admin, h.Delete)
	r.Put("/:id/interview", admin, h.ScheduleInterview)
	r.Post("/:id/interview/draft", admin, h.DraftInterview)
	r.Post("/:id/translate", admin, h.Translate)
	r.Post("/:id/suggestions", admin, h.Suggestions)
	r.Get("/:id/transitions", admin, h.Transitions)
}

func (h *ApplicationHandler) Search(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	f := repository.ApplicationFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		Status: application.Status(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job_id", nil, err)
		}
		f.JobID = id
	}

	res, err := h.apps.Search(c.Context(), f)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Paged(c, dto.NewApplicationList(res.Items, langOf(c)), response.Page{
		Total:  res.Total,
		Limit:  res.Limit,
		Offset: res.Offset,
	})
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	a, err := h.apps.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(a, langOf(c)))
}

func (h *ApplicationHandler) Create(c fiber.Ctx) error {
	var req createApplicationRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}
	in := usecase.CreateApplicationInput{
		Candidate:  req.Candidate,
		MatchScore: req.MatchScore,
		Summary:    req.Summary,
		Lang:       langOf(c),
	}
	if req.JobID != "" {
		id, err := uuid.Parse(req.JobID)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job_id", nil, err)
		}
		in.JobID = id
	}
	if isMultipart(c) {
		file, closeFn, err := formFile(c, "cv")
		if err != nil {
			return err
		}
		defer closeFn()
		in.CV = file
	}

	a, err := h.apps.Create(c.Context(), in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", dto.NewApplicationResponse(a, in.Lang))
}

func (h *ApplicationHandler) ParseCV(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.FormValue("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job_id", nil, err)
	}
	file, closeFn, err := formFile(c, "cv")
	if err != nil {
		return err
	}
	defer closeFn()
	if file == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "CV file is required", nil, nil)
	}

	fields, err := h.apps.ParseCV(c.Context(), usecase.ParseCVInput{JobID: jobID, File: *file, Lang: langOf(c)})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fields)
}

func (h *ApplicationHandler) UpdateStatus(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	status, err := application.ParseStatus(req.Status)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status", nil, err)
	}

	res, err := h.transitions.Apply(c.Context(), id, status, middleware.Actor(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	lang := langOf(c)
	data := map[string]any{
		"application":    dto.NewApplicationResponse(res.Application, lang),
		"from_status":    res.From,
		"interview_flow": res.InterviewFlow,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *ApplicationHandler) UpdateProfile(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	a, err := h.apps.UpdateProfile(c.Context(), id, usecase.ProfileInput{Candidate: req.Candidate, Summary: req.Summary})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(a, langOf(c)))
}

func (h *ApplicationHandler) Delete(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.apps.Delete(c.Context(), id, middleware.Actor(c)); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "deleted", nil)
}

func (r interviewRequest) parse() (time.Time, application.InterviewType, error) {
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(r.Date))
	if err != nil {
		return time.Time{}, "", middleware.NewAppError(fiber.StatusBadRequest, "interview_date must be RFC3339", nil, err)
	}
	t := application.InterviewType(strings.ToUpper(strings.TrimSpace(r.Type)))
	if t != "" && !t.Valid() {
		return time.Time{}, "", middleware.NewAppError(fiber.StatusBadRequest, "Invalid interview_type", nil, nil)
	}
	return at, t, nil
}

func (h *ApplicationHandler) ScheduleInterview(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req interviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	at, typ, err := req.parse()
	if err != nil {
		return err
	}

	res, err := h.apps.ScheduleInterview(c.Context(), id, usecase.ScheduleInput{Date: at, Type: typ, Location: req.Location, Message: req.Message})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, interviewResponse(res, langOf(c)))
}

func (h *ApplicationHandler) DraftInterview(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req interviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	at, typ, err := req.parse()
	if err != nil {
		return err
	}
	lang := req.Lang
	if lang == "" {
		lang = langOf(c)
	}

	res, err := h.apps.DraftInterview(c.Context(), id, usecase.DraftInput{Date: at, Type: typ, Location: req.Location, Lang: lang})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, interviewResponse(res, lang))
}

func interviewResponse(res usecase.InterviewResult, lang string) dto.InterviewResponse {
	return dto.InterviewResponse{
		Application: dto.NewApplicationResponse(res.Application, lang),
		Message:     res.Message,
		Links:       res.Links,
	}
}

func (h *ApplicationHandler) Translate(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	out, err := h.apps.Translate(c.Context(), id, langOf(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ApplicationHandler) Suggestions(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	force := c.Query("force") == "true"
	out, err := h.apps.Suggestions(c.Context(), id, langOf(c), force)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ApplicationHandler) Transitions(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	limit, err := parseQueryIntStrict(c, "limit", 50)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	out, err := h.apps.Transitions(c.Context(), id, limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
