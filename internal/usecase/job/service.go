// Package job runs the job board: listings, postings, applications,
// invitations and saved jobs.
package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mammy-coker-hub/internal/domain/application"
	"mammy-coker-hub/internal/domain/job"
	"mammy-coker-hub/internal/domain/notification"
	"mammy-coker-hub/internal/domain/professional"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/domain/validation"
	"mammy-coker-hub/internal/listing"
	"mammy-coker-hub/internal/pkg/logging"
	"mammy-coker-hub/internal/pkg/pagination"
	"mammy-coker-hub/internal/pkg/workerpool"
	"mammy-coker-hub/internal/repository"

	"github.com/google/uuid"
)

const (
	JobsPerPage         = 5
	ApplicationsPerPage = 5

	maxCoverLetter    = 5000
	maxInvitationText = 1000
	maxInvitesPerCall = 50
	invitationFanout  = 4
)

// Notifier delivers in-app notifications. Delivery failures are the
// notifier's concern and never fail the calling operation.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, t notification.Type, title, message string, data map[string]any)
}

// ProfessionalLookup resolves invitation targets to onboarded professionals.
type ProfessionalLookup interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (professional.Professional, error)
}

type Service struct {
	jobs          repository.JobRepository
	applications  repository.ApplicationRepository
	invitations   repository.InvitationRepository
	saved         repository.SavedJobRepository
	employers     repository.EmployerRepository
	professionals ProfessionalLookup
	profiles      user.ProfileRepository
	cache         Cache
	notifier      Notifier
	logger        *logging.Logger
	cacheTTL      time.Duration
}

func NewService(
	jobs repository.JobRepository,
	applications repository.ApplicationRepository,
	invitations repository.InvitationRepository,
	saved repository.SavedJobRepository,
	employers repository.EmployerRepository,
	professionals ProfessionalLookup,
	profiles user.ProfileRepository,
	cache Cache,
	notifier Notifier,
	logger *logging.Logger,
) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		jobs:          jobs,
		applications:  applications,
		invitations:   invitations,
		saved:         saved,
		employers:     employers,
		professionals: professionals,
		profiles:      profiles,
		cache:         cache,
		notifier:      notifier,
		logger:        logger.With("component", "job"),
		cacheTTL:      defaultActiveJobsTTL,
	}
}

type ListParams struct {
	Filter listing.JobFilter
	Page   int
}

type ListResult struct {
	pagination.Page[job.Job]
	ActiveFilters int `json:"active_filters"`
}

// List filters the active jobs and returns the requested page.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	jobs, err := s.activeJobs(ctx)
	if err != nil {
		return ListResult{}, err
	}
	filtered := params.Filter.Apply(jobs)
	return ListResult{
		Page:          pagination.Paginate(filtered, JobsPerPage, params.Page),
		ActiveFilters: params.Filter.ActiveCount(),
	}, nil
}

// Get returns an active job to anyone. Drafts and closed jobs are only
// visible to their employer and to admins; everyone else gets ErrNotFound.
func (s *Service) Get(ctx context.Context, viewer *user.Actor, id uuid.UUID) (job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return job.Job{}, err
	}
	if j.Status == job.StatusActive {
		return j, nil
	}
	if viewer != nil && (viewer.ID == j.EmployerID || viewer.Is(user.RoleAdmin)) {
		return j, nil
	}
	return job.Job{}, job.ErrNotFound
}

// ListMine returns every job the employer posted, whatever its status.
func (s *Service) ListMine(ctx context.Context, actor user.Actor) ([]job.Job, error) {
	if !actor.Is(user.RoleEmployer, user.RoleAdmin) {
		return nil, user.ErrForbidden
	}
	return s.jobs.ListByEmployer(ctx, actor.ID)
}

func (s *Service) Create(ctx context.Context, actor user.Actor, draft job.Draft) (job.Job, error) {
	if !actor.Is(user.RoleEmployer, user.RoleAdmin) {
		return job.Job{}, user.ErrForbidden
	}
	if err := draft.Validate(); err != nil {
		return job.Job{}, err
	}

	j := job.Job{
		EmployerID: actor.ID,
		Company:    s.companyName(ctx, actor),
		Status:     job.StatusActive,
	}
	draft.Apply(&j)

	created, err := s.jobs.Create(ctx, j)
	if err != nil {
		return job.Job{}, err
	}
	s.invalidate(ctx)
	s.logger.Info("job posted", "job_id", created.ID, "employer_id", actor.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor user.Actor, id uuid.UUID, draft job.Draft) (job.Job, error) {
	j, err := s.owned(ctx, actor, id)
	if err != nil {
		return job.Job{}, err
	}
	if err := draft.Validate(); err != nil {
		return job.Job{}, err
	}
	draft.Apply(&j)

	updated, err := s.jobs.Update(ctx, j)
	if err != nil {
		return job.Job{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) SetStatus(ctx context.Context, actor user.Actor, id uuid.UUID, status string) (job.Job, error) {
	st, err := job.ParseStatus(strings.TrimSpace(status))
	if err != nil {
		return job.Job{}, err
	}
	j, err := s.owned(ctx, actor, id)
	if err != nil {
		return job.Job{}, err
	}
	j.Status = st

	updated, err := s.jobs.Update(ctx, j)
	if err != nil {
		return job.Job{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor user.Actor, id uuid.UUID) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Apply records the professional's application and tells the employer.
func (s *Service) Apply(ctx context.Context, actor user.Actor, jobID uuid.UUID, coverLetter string) (application.Application, error) {
	if !actor.Is(user.RoleProfessional) {
		return application.Application{}, user.ErrForbidden
	}
	coverLetter = strings.TrimSpace(coverLetter)
	if validation.Len(coverLetter) > maxCoverLetter {
		return application.Application{}, validation.Errors{"coverLetter": "Cover letter must be at most 5000 characters"}
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return application.Application{}, err
	}
	if j.Status != job.StatusActive {
		return application.Application{}, job.ErrClosed
	}

	app, err := s.applications.Create(ctx, application.Application{
		JobID:          jobID,
		ProfessionalID: actor.ID,
		CoverLetter:    coverLetter,
		Status:         application.StatusPending,
	})
	if err != nil {
		return application.Application{}, err
	}

	s.notify(ctx, j.EmployerID, notification.TypeJobApplication,
		"New application",
		fmt.Sprintf("%s applied for %s", s.displayName(ctx, actor), j.Title),
		map[string]any{"job_id": j.ID, "application_id": app.ID},
	)
	return app, nil
}

// Applications lists the applicants of one of the employer's jobs.
func (s *Service) Applications(ctx context.Context, actor user.Actor, jobID uuid.UUID) ([]application.Application, error) {
	if _, err := s.owned(ctx, actor, jobID); err != nil {
		return nil, err
	}
	return s.applications.ListByJob(ctx, jobID)
}

func (s *Service) UpdateApplicationStatus(ctx context.Context, actor user.Actor, applicationID uuid.UUID, status string) (application.Application, error) {
	st, err := application.ParseStatus(strings.TrimSpace(status))
	if err != nil {
		return application.Application{}, err
	}
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return application.Application{}, err
	}
	j, err := s.owned(ctx, actor, app.JobID)
	if err != nil {
		return application.Application{}, err
	}

	updated, err := s.applications.UpdateStatus(ctx, applicationID, st)
	if err != nil {
		return application.Application{}, err
	}

	s.notify(ctx, app.ProfessionalID, notification.TypeJobUpdate,
		"Application update",
		fmt.Sprintf("Your application for %s is now %s", j.Title, st),
		map[string]any{"job_id": j.ID, "application_id": app.ID, "status": st},
	)
	return updated, nil
}

func (s *Service) MyApplications(ctx context.Context, actor user.Actor, page int) (pagination.Page[application.Application], error) {
	apps, err := s.applications.ListByProfessional(ctx, actor.ID)
	if err != nil {
		return pagination.Page[application.Application]{}, err
	}
	if apps == nil {
		apps = []application.Application{}
	}
	return pagination.Paginate(apps, ApplicationsPerPage, page), nil
}

type InviteFailure struct {
	ProfessionalID uuid.UUID `json:"professional_id"`
	Reason         string    `json:"reason"`
}

type InviteResult struct {
	Sent   []application.Invitation `json:"sent"`
	Failed []InviteFailure          `json:"failed"`
}

// Invite sends one invitation per professional. Each invitation succeeds or
// fails on its own; the result reports both sides.
func (s *Service) Invite(ctx context.Context, actor user.Actor, jobID uuid.UUID, professionalIDs []uuid.UUID, message string) (InviteResult, error) {
	ids := uniqueIDs(professionalIDs)
	e := validation.Errors{}
	if len(ids) == 0 {
		e.Add("professionalIds", "Select at least one professional")
	}
	if len(ids) > maxInvitesPerCall {
		e.Add("professionalIds", "At most 50 professionals can be invited at once")
	}
	message = strings.TrimSpace(message)
	validation.MaxLen(e, "message", message, maxInvitationText, "Message must be at most 1000 characters")
	if err := e.Err(); err != nil {
		return InviteResult{}, err
	}

	j, err := s.owned(ctx, actor, jobID)
	if err != nil {
		return InviteResult{}, err
	}
	if j.Status != job.StatusActive {
		return InviteResult{}, job.ErrClosed
	}

	sent := make([]*application.Invitation, len(ids))
	errs := workerpool.Each(ctx, invitationFanout, len(ids), func(ctx context.Context, i int) error {
		if _, err := s.professionals.GetByUserID(ctx, ids[i]); err != nil {
			return err
		}
		inv, err := s.invitations.Create(ctx, application.Invitation{
			JobID:          j.ID,
			EmployerID:     actor.ID,
			ProfessionalID: ids[i],
			Message:        message,
			Status:         application.InvitationPending,
		})
		if err != nil {
			return err
		}
		sent[i] = &inv

		s.notify(ctx, ids[i], notification.TypeJobUpdate,
			"New job invitation",
			fmt.Sprintf("%s invited you to apply for %s", j.Company, j.Title),
			map[string]any{"job_id": j.ID, "invitation_id": inv.ID},
		)
		return nil
	})

	res := InviteResult{Sent: []application.Invitation{}, Failed: []InviteFailure{}}
	for i, err := range errs {
		if err == nil {
			res.Sent = append(res.Sent, *sent[i])
			continue
		}
		reason := "could not send invitation"
		switch {
		case errors.Is(err, application.ErrInvitationExists):
			reason = "already invited"
		case errors.Is(err, professional.ErrNotFound):
			reason = "not a professional"
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			reason = "cancelled"
		default:
			s.logger.Error("invitation failed", "job_id", j.ID, "professional_id", ids[i], "error", err)
		}
		res.Failed = append(res.Failed, InviteFailure{ProfessionalID: ids[i], Reason: reason})
	}
	return res, nil
}

func (s *Service) MyInvitations(ctx context.Context, actor user.Actor) ([]application.Invitation, error) {
	return s.invitations.ListByProfessional(ctx, actor.ID)
}

// RespondInvitation accepts or declines a pending invitation addressed to actor.
func (s *Service) RespondInvitation(ctx context.Context, actor user.Actor, invitationID uuid.UUID, response string) (application.Invitation, error) {
	st, err := application.ParseResponse(strings.TrimSpace(response))
	if err != nil {
		return application.Invitation{}, err
	}
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return application.Invitation{}, err
	}
	if inv.ProfessionalID != actor.ID {
		return application.Invitation{}, user.ErrForbidden
	}

	updated, err := s.invitations.Respond(ctx, invitationID, st)
	if err != nil {
		return application.Invitation{}, err
	}

	s.notify(ctx, inv.EmployerID, notification.TypeJobUpdate,
		"Invitation "+string(st),
		fmt.Sprintf("%s %s your invitation for %s", s.displayName(ctx, actor), st, inv.JobTitle),
		map[string]any{"job_id": inv.JobID, "invitation_id": inv.ID, "status": st},
	)
	return updated, nil
}

func (s *Service) Save(ctx context.Context, actor user.Actor, jobID uuid.UUID) error {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return err
	}
	return s.saved.Save(ctx, actor.ID, jobID)
}

func (s *Service) Unsave(ctx context.Context, actor user.Actor, jobID uuid.UUID) error {
	return s.saved.Unsave(ctx, actor.ID, jobID)
}

func (s *Service) Saved(ctx context.Context, actor user.Actor) ([]job.Job, error) {
	return s.saved.List(ctx, actor.ID)
}

// owned loads the job and checks actor may manage it.
func (s *Service) owned(ctx context.Context, actor user.Actor, id uuid.UUID) (job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return job.Job{}, err
	}
	if j.EmployerID != actor.ID && !actor.IsAdmin() {
		return job.Job{}, job.ErrNotOwner
	}
	return j, nil
}

func (s *Service) companyName(ctx context.Context, actor user.Actor) string {
	if s.employers != nil {
		if emp, err := s.employers.GetByUserID(ctx, actor.ID); err == nil && emp.CompanyName != "" {
			return emp.CompanyName
		}
	}
	return s.displayName(ctx, actor)
}

func (s *Service) displayName(ctx context.Context, actor user.Actor) string {
	if s.profiles != nil {
		if p, err := s.profiles.GetProfile(ctx, actor.ID); err == nil && strings.TrimSpace(p.FullName) != "" {
			return p.FullName
		}
	}
	if local, _, ok := strings.Cut(actor.Email, "@"); ok && local != "" {
		return local
	}
	return "Someone"
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, t notification.Type, title, message string, data map[string]any) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, t, title, message, data)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
