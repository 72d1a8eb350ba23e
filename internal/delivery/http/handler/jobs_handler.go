package handler

import (
	"context"
	"strconv"

	"mammy-coker-hub/internal/delivery/http/dto"
	"mammy-coker-hub/internal/delivery/http/middleware"
	"mammy-coker-hub/internal/domain/application"
	"mammy-coker-hub/internal/domain/job"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/listing"
	"mammy-coker-hub/internal/pkg/pagination"
	"mammy-coker-hub/internal/pkg/response"
	jobuc "mammy-coker-hub/internal/usecase/job"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobService interface {
	List(ctx context.Context, params jobuc.ListParams) (jobuc.ListResult, error)
	Get(ctx context.Context, viewer *user.Actor, id uuid.UUID) (job.Job, error)
	ListMine(ctx context.Context, actor user.Actor) ([]job.Job, error)
	Create(ctx context.Context, actor user.Actor, draft job.Draft) (job.Job, error)
	Update(ctx context.Context, actor user.Actor, id uuid.UUID, draft job.Draft) (job.Job, error)
	SetStatus(ctx context.Context, actor user.Actor, id uuid.UUID, status string) (job.Job, error)
	Delete(ctx context.Context, actor user.Actor, id uuid.UUID) error
	Apply(ctx context.Context, actor user.Actor, jobID uuid.UUID, coverLetter string) (application.Application, error)
	Applications(ctx context.Context, actor user.Actor, jobID uuid.UUID) ([]application.Application, error)
	UpdateApplicationStatus(ctx context.Context, actor user.Actor, applicationID uuid.UUID, status string) (application.Application, error)
	MyApplications(ctx context.Context, actor user.Actor, page int) (pagination.Page[application.Application], error)
	Invite(ctx context.Context, actor user.Actor, jobID uuid.UUID, professionalIDs []uuid.UUID, message string) (jobuc.InviteResult, error)
	MyInvitations(ctx context.Context, actor user.Actor) ([]application.Invitation, error)
	RespondInvitation(ctx context.Context, actor user.Actor, invitationID uuid.UUID, response string) (application.Invitation, error)
	Save(ctx context.Context, actor user.Actor, jobID uuid.UUID) error
	Unsave(ctx context.Context, actor user.Actor, jobID uuid.UUID) error
	Saved(ctx context.Context, actor user.Actor) ([]job.Job, error)
}

type JobsHandler struct {
	svc JobService
}

func NewJobsHandler(svc JobService) *JobsHandler {
	return &JobsHandler{svc: svc}
}

// jobListResponse is a page of jobs plus the facet count the filter bar shows.
type jobListResponse struct {
	pagination.Page[dto.JobResponse]
	ActiveFilters int `json:"active_filters"`
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router, authed, optional fiber.Handler) {
	if r == nil {
		return
	}

	employer := middleware.RequireRole(user.RoleEmployer, user.RoleAdmin)

	r.Get("/jobs", h.List)
	r.Get("/jobs/mine", authed, employer, h.ListMine)
	r.Get("/jobs/saved", authed, h.Saved)
	r.Get("/jobs/:id", optional, h.Get)
	r.Post("/jobs", authed, h.Create)
	r.Put("/jobs/:id", authed, h.Update)
	r.Patch("/jobs/:id/status", authed, h.SetStatus)
	r.Delete("/jobs/:id", authed, h.Delete)

	r.Post("/jobs/:id/apply", authed, h.Apply)
	r.Get("/jobs/:id/applications", authed, h.Applications)
	r.Post("/jobs/:id/invitations", authed, employer, h.Invite)
	r.Post("/jobs/:id/save", authed, h.Save)
	r.Delete("/jobs/:id/save", authed, h.Unsave)

	r.Get("/applications/mine", authed, h.MyApplications)
	r.Patch("/applications/:id/status", authed, h.UpdateApplicationStatus)

	r.Get("/invitations/mine", authed, h.MyInvitations)
	r.Post("/invitations/:id/respond", authed, h.RespondInvitation)
}

func (h *JobsHandler) List(c fiber.Ctx) error {
	page, err := parseQueryIntStrict(c, "page", 1)
	if err != nil {
		return err
	}
	filter, err := jobFilterFromQuery(c)
	if err != nil {
		return err
	}

	res, err := h.svc.List(c.Context(), jobuc.ListParams{Filter: filter, Page: page})
	if err != nil {
		return err
	}

	out := jobListResponse{ActiveFilters: res.ActiveFilters}
	out.Page = pagination.Page[dto.JobResponse]{
		Items:       dto.NewJobResponses(res.Items),
		CurrentPage: res.CurrentPage,
		TotalPages:  res.TotalPages,
		TotalItems:  res.TotalItems,
		PerPage:     res.PerPage,
		HasNextPage: res.HasNextPage,
		HasPrevPage: res.HasPrevPage,
		Pages:       res.Pages,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

// jobFilterFromQuery reads the facets. A salary bound that is not given
// keeps the slider default.
func jobFilterFromQuery(c fiber.Ctx) (listing.JobFilter, error) {
	f := listing.JobFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Location: c.Query("location"),
		Type:     c.Query("type"),
	}

	lo, hi := c.Query("salary_min"), c.Query("salary_max")
	if lo == "" && hi == "" {
		return f, nil
	}
	r := listing.DefaultSalaryRange
	if lo != "" {
		v, err := strconv.ParseInt(lo, 10, 64)
		if err != nil {
			return f, middleware.NewAppError(fiber.StatusBadRequest, "Invalid salary_min", nil, err)
		}
		r.Min = v
	}
	if hi != "" {
		v, err := strconv.ParseInt(hi, 10, 64)
		if err != nil {
			return f, middleware.NewAppError(fiber.StatusBadRequest, "Invalid salary_max", nil, err)
		}
		r.Max = v
	}
	f.Salary = &r
	return f, nil
}

func (h *JobsHandler) Get(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var viewer *user.Actor
	if a, ok := middleware.ActorFrom(c); ok {
		viewer = &a
	}

	j, err := h.svc.Get(c.Context(), viewer, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) ListMine(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListMine(c.Context(), a)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponses(items))
}

func (h *JobsHandler) Create(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.JobRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	j, err := h.svc.Create(c.Context(), a, req.Draft())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Job posted", dto.NewJobResponse(j))
}

func (h *JobsHandler) Update(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.JobRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	j, err := h.svc.Update(c.Context(), a, id, req.Draft())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Job updated", dto.NewJobResponse(j))
}

func (h *JobsHandler) SetStatus(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	j, err := h.svc.SetStatus(c.Context(), a, id, req.Status)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Job updated", dto.NewJobResponse(j))
}

func (h *JobsHandler) Delete(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), a, id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Job deleted", nil)
}

func (h *JobsHandler) Apply(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ApplyRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &req); err != nil {
			return err
		}
	}

	app, err := h.svc.Apply(c.Context(), a, id, req.CoverLetter)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Application submitted", app)
}

func (h *JobsHandler) Applications(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.Applications(c.Context(), a, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *JobsHandler) UpdateApplicationStatus(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	app, err := h.svc.UpdateApplicationStatus(c.Context(), a, id, req.Status)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Application updated", app)
}

func (h *JobsHandler) MyApplications(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	page, err := parseQueryIntStrict(c, "page", 1)
	if err != nil {
		return err
	}
	res, err := h.svc.MyApplications(c.Context(), a, page)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *JobsHandler) Invite(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.InviteRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.svc.Invite(c.Context(), a, id, req.ProfessionalIDs, req.Message)
	if err != nil {
		return err
	}
	status := fiber.StatusCreated
	if len(res.Sent) == 0 {
		status = fiber.StatusOK
	}
	return response.Success(c, status, "Invitations processed", res)
}

func (h *JobsHandler) MyInvitations(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	items, err := h.svc.MyInvitations(c.Context(), a)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *JobsHandler) RespondInvitation(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.RespondInvitationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	inv, err := h.svc.RespondInvitation(c.Context(), a, id, req.Response)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Invitation "+string(inv.Status), inv)
}

func (h *JobsHandler) Save(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Save(c.Context(), a, id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Job saved", nil)
}

func (h *JobsHandler) Unsave(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Unsave(c.Context(), a, id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Job removed from saved", nil)
}

func (h *JobsHandler) Saved(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	items, err := h.svc.Saved(c.Context(), a)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponses(items))
}
