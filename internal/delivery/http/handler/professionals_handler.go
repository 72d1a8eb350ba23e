package handler

import (
	"context"

	"mammy-coker-hub/internal/delivery/http/dto"
	"mammy-coker-hub/internal/delivery/http/middleware"
	"mammy-coker-hub/internal/domain/professional"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/listing"
	"mammy-coker-hub/internal/pkg/pagination"
	"mammy-coker-hub/internal/pkg/response"
	prouc "mammy-coker-hub/internal/usecase/professional"
	"mammy-coker-hub/internal/usecase/upload"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProfessionalService interface {
	Search(ctx context.Context, f listing.ProfessionalFilter, page int) (prouc.SearchResult, error)
	View(ctx context.Context, viewer *user.Actor, userID uuid.UUID) (prouc.Profile, error)
	Onboard(ctx context.Context, actor user.Actor, in professional.Onboarding) (professional.Professional, error)
	Employer(ctx context.Context, userID uuid.UUID) (professional.Employer, error)
	OnboardEmployer(ctx context.Context, actor user.Actor, in professional.EmployerOnboarding) (professional.Employer, error)
	SetAvatar(ctx context.Context, actor user.Actor, f upload.File) (upload.Object, error)
	SetLogo(ctx context.Context, actor user.Actor, f upload.File) (upload.Object, error)
	AddCertificate(ctx context.Context, actor user.Actor, in prouc.CertificateInput, f upload.File) (professional.Certificate, error)
	Certificates(ctx context.Context, userID uuid.UUID) ([]professional.Certificate, error)
	DeleteCertificate(ctx context.Context, actor user.Actor, id uuid.UUID) error
}

type ProfessionalsHandler struct {
	svc ProfessionalService
}

func NewProfessionalsHandler(svc ProfessionalService) *ProfessionalsHandler {
	return &ProfessionalsHandler{svc: svc}
}

type professionalListResponse struct {
	pagination.Page[dto.ProfessionalResponse]
	ActiveFilters int `json:"active_filters"`
}

func (h *ProfessionalsHandler) RegisterRoutes(r fiber.Router, authed, optional fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/professionals", h.Search)
	r.Put("/professionals/me", authed, h.Onboard)
	r.Post("/professionals/me/avatar", authed, h.SetAvatar)
	r.Get("/professionals/:id", optional, h.View)
	r.Get("/professionals/:id/certificates", h.Certificates)

	r.Get("/employers/me", authed, h.MyEmployer)
	r.Put("/employers/me", authed, h.OnboardEmployer)
	r.Post("/employers/me/logo", authed, h.SetLogo)
	r.Get("/employers/:id", h.Employer)

	r.Post("/certificates", authed, h.AddCertificate)
	r.Delete("/certificates/:id", authed, h.DeleteCertificate)
}

func (h *ProfessionalsHandler) Search(c fiber.Ctx) error {
	page, err := parseQueryIntStrict(c, "page", 1)
	if err != nil {
		return err
	}
	minRating, err := parseQueryFloat(c, "min_rating")
	if err != nil {
		return err
	}

	res, err := h.svc.Search(c.Context(), listing.ProfessionalFilter{
		Search:       c.Query("search"),
		Category:     c.Query("category"),
		Location:     c.Query("location"),
		Availability: c.Query("availability"),
		MinRating:    minRating,
	}, page)
	if err != nil {
		return err
	}

	out := professionalListResponse{ActiveFilters: res.ActiveFilters}
	out.Page = pagination.Page[dto.ProfessionalResponse]{
		Items:       dto.NewProfessionalResponses(res.Items),
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

func (h *ProfessionalsHandler) View(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var viewer *user.Actor
	if a, ok := middleware.ActorFrom(c); ok {
		viewer = &a
	}

	p, err := h.svc.View(c.Context(), viewer, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *ProfessionalsHandler) Onboard(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.OnboardingRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	p, err := h.svc.Onboard(c.Context(), a, req.Onboarding())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Profile saved", p)
}

func (h *ProfessionalsHandler) SetAvatar(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	f, closer, err := formFile(c)
	if err != nil {
		return err
	}
	defer closer.Close()

	obj, err := h.svc.SetAvatar(c.Context(), a, f)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Avatar updated", obj)
}

func (h *ProfessionalsHandler) Certificates(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	certs, err := h.svc.Certificates(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, certs)
}

func (h *ProfessionalsHandler) MyEmployer(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	emp, err := h.svc.Employer(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, emp)
}

func (h *ProfessionalsHandler) Employer(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	emp, err := h.svc.Employer(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, emp)
}

func (h *ProfessionalsHandler) OnboardEmployer(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.EmployerOnboardingRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	emp, err := h.svc.OnboardEmployer(c.Context(), a, req.Onboarding())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Company profile saved", emp)
}

func (h *ProfessionalsHandler) SetLogo(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	f, closer, err := formFile(c)
	if err != nil {
		return err
	}
	defer closer.Close()

	obj, err := h.svc.SetLogo(c.Context(), a, f)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Logo updated", obj)
}

// AddCertificate takes a multipart form: file plus name, issuer, issued_at.
func (h *ProfessionalsHandler) AddCertificate(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	f, closer, err := formFile(c)
	if err != nil {
		return err
	}
	defer closer.Close()

	cert, err := h.svc.AddCertificate(c.Context(), a, prouc.CertificateInput{
		Name:     c.FormValue("name"),
		Issuer:   c.FormValue("issuer"),
		IssuedAt: c.FormValue("issued_at"),
	}, f)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Certificate added", cert)
}

func (h *ProfessionalsHandler) DeleteCertificate(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCertificate(c.Context(), a, id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Certificate deleted", nil)
}
