// Package professional serves the professional directory, onboarding of
// professionals and employers, and certificates.
package professional

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mammy-coker-hub/internal/domain/notification"
	"mammy-coker-hub/internal/domain/professional"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/domain/validation"
	"mammy-coker-hub/internal/listing"
	"mammy-coker-hub/internal/pkg/logging"
	"mammy-coker-hub/internal/pkg/pagination"
	"mammy-coker-hub/internal/repository"
	"mammy-coker-hub/internal/usecase/upload"

	"github.com/google/uuid"
)

const ProfessionalsPerPage = 6

// profileViewWindow limits profile_view notifications to one per viewer per window.
const profileViewWindow = 24 * time.Hour

type Uploader interface {
	Upload(ctx context.Context, actor user.Actor, bucket upload.Bucket, f upload.File) (upload.Object, error)
	Delete(ctx context.Context, actor user.Actor, bucket upload.Bucket, objectPath string) error
}

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, t notification.Type, title, message string, data map[string]any)
}

// Throttle admits a key once per ttl.
type Throttle interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type Service struct {
	professionals repository.ProfessionalRepository
	employers     repository.EmployerRepository
	certificates  repository.CertificateRepository
	profiles      user.ProfileRepository
	uploads       Uploader
	notifier      Notifier
	throttle      Throttle
	logger        *logging.Logger
}

func NewService(
	professionals repository.ProfessionalRepository,
	employers repository.EmployerRepository,
	certificates repository.CertificateRepository,
	profiles user.ProfileRepository,
	uploads Uploader,
	notifier Notifier,
	throttle Throttle,
	logger *logging.Logger,
) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		professionals: professionals,
		employers:     employers,
		certificates:  certificates,
		profiles:      profiles,
		uploads:       uploads,
		notifier:      notifier,
		throttle:      throttle,
		logger:        logger.With("component", "professional"),
	}
}

type SearchResult struct {
	pagination.Page[professional.Professional]
	ActiveFilters int `json:"active_filters"`
}

// Search filters the directory and returns the requested page.
func (s *Service) Search(ctx context.Context, f listing.ProfessionalFilter, page int) (SearchResult, error) {
	all, err := s.professionals.List(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Page:          pagination.Paginate(f.Apply(all), ProfessionalsPerPage, page),
		ActiveFilters: f.ActiveCount(),
	}, nil
}

type Profile struct {
	professional.Professional
	Certificates []professional.Certificate `json:"certificates"`
}

// View returns a professional's public profile. When an employer looks at
// someone else's profile the professional is told, at most once a day per
// employer.
func (s *Service) View(ctx context.Context, viewer *user.Actor, userID uuid.UUID) (Profile, error) {
	p, err := s.professionals.GetByUserID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	certs, err := s.certificates.ListByUser(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if certs == nil {
		certs = []professional.Certificate{}
	}

	if viewer != nil && viewer.ID != userID && viewer.Is(user.RoleEmployer) {
		s.profileViewed(ctx, *viewer, userID)
	}
	return Profile{Professional: p, Certificates: certs}, nil
}

func (s *Service) profileViewed(ctx context.Context, viewer user.Actor, userID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if s.throttle != nil {
		key := fmt.Sprintf("profile_view:%s:%s", viewer.ID, userID)
		ok, err := s.throttle.SetIfNotExists(ctx, key, "1", profileViewWindow)
		if err == nil && !ok {
			return
		}
	}
	who := "An employer"
	if s.employers != nil {
		if emp, err := s.employers.GetByUserID(ctx, viewer.ID); err == nil && emp.CompanyName != "" {
			who = emp.CompanyName
		}
	}
	s.notifier.Notify(ctx, userID, notification.TypeProfileView,
		"Profile viewed",
		who+" viewed your profile",
		map[string]any{"viewer_id": viewer.ID},
	)
}

// Onboard creates or updates the actor's professional profile.
func (s *Service) Onboard(ctx context.Context, actor user.Actor, in professional.Onboarding) (professional.Professional, error) {
	if !actor.Is(user.RoleProfessional, user.RoleAdmin) {
		return professional.Professional{}, user.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return professional.Professional{}, err
	}

	p, err := s.professionals.GetByUserID(ctx, actor.ID)
	if err != nil && !errors.Is(err, professional.ErrNotFound) {
		return professional.Professional{}, err
	}
	p.UserID = actor.ID
	in.Apply(&p)

	phone := strings.TrimSpace(in.Phone)
	saved, err := s.professionals.Upsert(ctx, p, phone)
	if err != nil {
		return professional.Professional{}, err
	}

	s.syncProfile(ctx, user.Profile{
		UserID:   actor.ID,
		Email:    actor.Email,
		FullName: saved.Name,
		Phone:    phone,
		Location: saved.Location,
	})
	return saved, nil
}

func (s *Service) Employer(ctx context.Context, userID uuid.UUID) (professional.Employer, error) {
	return s.employers.GetByUserID(ctx, userID)
}

// OnboardEmployer creates or updates the actor's company profile.
func (s *Service) OnboardEmployer(ctx context.Context, actor user.Actor, in professional.EmployerOnboarding) (professional.Employer, error) {
	if !actor.Is(user.RoleEmployer, user.RoleAdmin) {
		return professional.Employer{}, user.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return professional.Employer{}, err
	}

	emp, err := s.employers.GetByUserID(ctx, actor.ID)
	if err != nil && !errors.Is(err, professional.ErrEmployerNotFound) {
		return professional.Employer{}, err
	}
	emp.UserID = actor.ID
	in.Apply(&emp)

	saved, err := s.employers.Upsert(ctx, emp)
	if err != nil {
		return professional.Employer{}, err
	}

	s.syncProfile(ctx, user.Profile{
		UserID:   actor.ID,
		Email:    actor.Email,
		FullName: saved.ContactName,
		Phone:    saved.Phone,
		Location: saved.Location,
	})
	return saved, nil
}

// SetAvatar uploads a profile picture and points the profile at it.
func (s *Service) SetAvatar(ctx context.Context, actor user.Actor, f upload.File) (upload.Object, error) {
	obj, err := s.uploads.Upload(ctx, actor, upload.BucketAvatars, f)
	if err != nil {
		return upload.Object{}, err
	}
	if actor.Is(user.RoleProfessional) {
		if err := s.professionals.SetAvatar(ctx, actor.ID, obj.URL); err != nil {
			return upload.Object{}, err
		}
	}
	s.syncProfile(ctx, user.Profile{UserID: actor.ID, Email: actor.Email, AvatarURL: obj.URL})
	return obj, nil
}

func (s *Service) SetLogo(ctx context.Context, actor user.Actor, f upload.File) (upload.Object, error) {
	if !actor.Is(user.RoleEmployer, user.RoleAdmin) {
		return upload.Object{}, user.ErrForbidden
	}
	if _, err := s.employers.GetByUserID(ctx, actor.ID); err != nil {
		return upload.Object{}, err
	}
	obj, err := s.uploads.Upload(ctx, actor, upload.BucketLogos, f)
	if err != nil {
		return upload.Object{}, err
	}
	if err := s.employers.SetLogo(ctx, actor.ID, obj.URL); err != nil {
		return upload.Object{}, err
	}
	return obj, nil
}

type CertificateInput struct {
	Name     string
	Issuer   string
	IssuedAt string
}

func (in CertificateInput) Validate() error {
	e := validation.Errors{}
	validation.MinLen(e, "name", in.Name, 2, "Certificate name is required")
	validation.MaxLen(e, "name", in.Name, 200, "Certificate name must be at most 200 characters")
	validation.MaxLen(e, "issuer", in.Issuer, 200, "Issuer must be at most 200 characters")
	if d := strings.TrimSpace(in.IssuedAt); d != "" {
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			e.Add("issuedAt", "Issue date must be YYYY-MM-DD")
		}
	}
	return e.Err()
}

// AddCertificate uploads the document and records it. The file is removed
// again when the record cannot be written.
func (s *Service) AddCertificate(ctx context.Context, actor user.Actor, in CertificateInput, f upload.File) (professional.Certificate, error) {
	if err := in.Validate(); err != nil {
		return professional.Certificate{}, err
	}
	obj, err := s.uploads.Upload(ctx, actor, upload.BucketCertificates, f)
	if err != nil {
		return professional.Certificate{}, err
	}

	c := professional.Certificate{
		UserID:   actor.ID,
		Name:     strings.TrimSpace(in.Name),
		Issuer:   strings.TrimSpace(in.Issuer),
		FilePath: obj.Path,
		FileURL:  obj.URL,
	}
	if d := strings.TrimSpace(in.IssuedAt); d != "" {
		t, _ := time.Parse(time.DateOnly, d)
		c.IssuedAt = &t
	}

	created, err := s.certificates.Create(ctx, c)
	if err != nil {
		if rmErr := s.uploads.Delete(ctx, actor, upload.BucketCertificates, obj.Path); rmErr != nil {
			s.logger.Warn("orphaned certificate file", "path", obj.Path, "error", rmErr)
		}
		return professional.Certificate{}, err
	}
	return created, nil
}

func (s *Service) Certificates(ctx context.Context, userID uuid.UUID) ([]professional.Certificate, error) {
	certs, err := s.certificates.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if certs == nil {
		certs = []professional.Certificate{}
	}
	return certs, nil
}

func (s *Service) DeleteCertificate(ctx context.Context, actor user.Actor, id uuid.UUID) error {
	c, err := s.certificates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != actor.ID && !actor.IsAdmin() {
		return user.ErrForbidden
	}
	if err := s.certificates.Delete(ctx, id); err != nil {
		return err
	}
	if c.FilePath != "" && c.UserID == actor.ID {
		if err := s.uploads.Delete(ctx, actor, upload.BucketCertificates, c.FilePath); err != nil {
			s.logger.Warn("certificate file not removed", "path", c.FilePath, "error", err)
		}
	}
	return nil
}

func (s *Service) syncProfile(ctx context.Context, p user.Profile) {
	if s.profiles == nil {
		return
	}
	if _, err := s.profiles.UpsertProfile(ctx, p); err != nil {
		s.logger.Warn("profile sync failed", "user_id", p.UserID, "error", err)
	}
}
