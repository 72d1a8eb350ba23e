package professional

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mammy-coker-hub/internal/domain/notification"
	"mammy-coker-hub/internal/domain/professional"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/domain/validation"
	"mammy-coker-hub/internal/listing"
	"mammy-coker-hub/internal/usecase/upload"

	"github.com/google/uuid"
)

type fakeProfessionals struct {
	items  map[uuid.UUID]professional.Professional
	phones map[uuid.UUID]string
}

func (f *fakeProfessionals) List(context.Context) ([]professional.Professional, error) {
	out := []professional.Professional{}
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfessionals) GetByUserID(_ context.Context, id uuid.UUID) (professional.Professional, error) {
	p, ok := f.items[id]
	if !ok {
		return professional.Professional{}, professional.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfessionals) Upsert(_ context.Context, p professional.Professional, phone string) (professional.Professional, error) {
	f.items[p.UserID] = p
	f.phones[p.UserID] = phone
	return p, nil
}

func (f *fakeProfessionals) SetAvatar(_ context.Context, id uuid.UUID, url string) error {
	p := f.items[id]
	p.AvatarURL = url
	f.items[id] = p
	return nil
}

type fakeEmployers struct{ items map[uuid.UUID]professional.Employer }

func (f *fakeEmployers) GetByUserID(_ context.Context, id uuid.UUID) (professional.Employer, error) {
	e, ok := f.items[id]
	if !ok {
		return professional.Employer{}, professional.ErrEmployerNotFound
	}
	return e, nil
}

func (f *fakeEmployers) Upsert(_ context.Context, e professional.Employer) (professional.Employer, error) {
	f.items[e.UserID] = e
	return e, nil
}

func (f *fakeEmployers) SetLogo(_ context.Context, id uuid.UUID, url string) error {
	e := f.items[id]
	e.LogoURL = url
	f.items[id] = e
	return nil
}

type fakeCertificates struct {
	items     map[uuid.UUID]professional.Certificate
	createErr error
}

func (f *fakeCertificates) Create(_ context.Context, c professional.Certificate) (professional.Certificate, error) {
	if f.createErr != nil {
		return professional.Certificate{}, f.createErr
	}
	c.ID = uuid.New()
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeCertificates) ListByUser(_ context.Context, id uuid.UUID) ([]professional.Certificate, error) {
	var out []professional.Certificate
	for _, c := range f.items {
		if c.UserID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCertificates) GetByID(_ context.Context, id uuid.UUID) (professional.Certificate, error) {
	c, ok := f.items[id]
	if !ok {
		return professional.Certificate{}, professional.ErrCertificateNotFound
	}
	return c, nil
}

func (f *fakeCertificates) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type fakeProfiles struct{ saved []user.Profile }

func (f *fakeProfiles) GetProfile(context.Context, uuid.UUID) (user.Profile, error) {
	return user.Profile{}, user.ErrNotFound
}

func (f *fakeProfiles) UpsertProfile(_ context.Context, p user.Profile) (user.Profile, error) {
	f.saved = append(f.saved, p)
	return p, nil
}

type fakeUploader struct {
	deleted []string
}

func (u *fakeUploader) Upload(_ context.Context, actor user.Actor, b upload.Bucket, f upload.File) (upload.Object, error) {
	p := actor.ID.String() + "/1_" + f.Name
	return upload.Object{Bucket: b, Path: p, URL: "https://cdn.test/" + string(b) + "/" + p}, nil
}

func (u *fakeUploader) Delete(_ context.Context, _ user.Actor, b upload.Bucket, p string) error {
	u.deleted = append(u.deleted, string(b)+"/"+p)
	return nil
}

type fakeNotifier struct{ types []notification.Type }

func (n *fakeNotifier) Notify(_ context.Context, _ uuid.UUID, t notification.Type, _, _ string, _ map[string]any) {
	n.types = append(n.types, t)
}

type onceThrottle struct{ seen map[string]bool }

func (o *onceThrottle) SetIfNotExists(_ context.Context, key, _ string, _ time.Duration) (bool, error) {
	if o.seen[key] {
		return false, nil
	}
	o.seen[key] = true
	return true, nil
}

type fixture struct {
	svc      *Service
	pros     *fakeProfessionals
	emps     *fakeEmployers
	certs    *fakeCertificates
	profiles *fakeProfiles
	uploads  *fakeUploader
	notifier *fakeNotifier
}

func newFixture() fixture {
	f := fixture{
		pros:     &fakeProfessionals{items: map[uuid.UUID]professional.Professional{}, phones: map[uuid.UUID]string{}},
		emps:     &fakeEmployers{items: map[uuid.UUID]professional.Employer{}},
		certs:    &fakeCertificates{items: map[uuid.UUID]professional.Certificate{}},
		profiles: &fakeProfiles{},
		uploads:  &fakeUploader{},
		notifier: &fakeNotifier{},
	}
	f.svc = NewService(f.pros, f.emps, f.certs, f.profiles, f.uploads, f.notifier, &onceThrottle{seen: map[string]bool{}}, nil)
	return f
}

func validOnboarding() professional.Onboarding {
	return professional.Onboarding{
		FullName:        "Mohamed Kamara",
		Phone:           "+232 76 123456",
		Location:        "Freetown",
		Category:        "Carpentry",
		YearsExperience: "8",
		Skills:          "Furniture Making, Cabinet Installation, furniture making",
		Bio:             "Master carpenter with years of residential experience.",
	}
}

func TestSearch_SixPerPage(t *testing.T) {
	f := newFixture()
	for i := 0; i < 8; i++ {
		id := uuid.New()
		f.pros.items[id] = professional.Professional{UserID: id, Name: fmt.Sprintf("Pro %d", i), Category: "Carpentry", Rating: 4.5}
	}
	id := uuid.New()
	f.pros.items[id] = professional.Professional{UserID: id, Name: "Sparky", Category: "Electrical", Rating: 4.9}

	res, err := f.svc.Search(context.Background(), listing.ProfessionalFilter{Category: "Carpentry"}, 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.TotalItems != 8 || len(res.Items) != 6 || res.TotalPages != 2 || res.ActiveFilters != 1 {
		t.Fatalf("unexpected result %+v", res.Page)
	}
}

func TestOnboard_SavesProfessionalAndProfile(t *testing.T) {
	f := newFixture()
	actor := user.Actor{ID: uuid.New(), Email: "mohamed@example.com", Role: user.RoleProfessional}

	p, err := f.svc.Onboard(context.Background(), actor, validOnboarding())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.YearsExperience != 8 || len(p.Skills) != 2 || p.Availability != professional.AvailabilityAvailable {
		t.Fatalf("unexpected professional %+v", p)
	}
	if f.pros.phones[actor.ID] != "+232 76 123456" {
		t.Fatalf("phone not stored")
	}
	if len(f.profiles.saved) != 1 || f.profiles.saved[0].FullName != "Mohamed Kamara" {
		t.Fatalf("profile not synced: %+v", f.profiles.saved)
	}
}

func TestOnboard_RejectsEmployerAndInvalidForm(t *testing.T) {
	f := newFixture()
	emp := user.Actor{ID: uuid.New(), Role: user.RoleEmployer}
	if _, err := f.svc.Onboard(context.Background(), emp, validOnboarding()); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	pro := user.Actor{ID: uuid.New(), Role: user.RoleProfessional}
	in := validOnboarding()
	in.Bio = "short"
	var fe validation.Errors
	if _, err := f.svc.Onboard(context.Background(), pro, in); !errors.As(err, &fe) || fe["bio"] == "" {
		t.Fatalf("expected a bio error, got %v", err)
	}
}

func TestView_NotifiesOncePerEmployer(t *testing.T) {
	f := newFixture()
	proID := uuid.New()
	f.pros.items[proID] = professional.Professional{UserID: proID, Name: "Mohamed"}
	viewer := user.Actor{ID: uuid.New(), Role: user.RoleEmployer}

	for i := 0; i < 3; i++ {
		if _, err := f.svc.View(context.Background(), &viewer, proID); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	if _, err := f.svc.View(context.Background(), nil, proID); err != nil {
		t.Fatalf("anonymous view: %v", err)
	}
	if len(f.notifier.types) != 1 || f.notifier.types[0] != notification.TypeProfileView {
		t.Fatalf("expected one profile_view notification, got %v", f.notifier.types)
	}
}

func TestAddCertificate_RemovesFileWhenRecordFails(t *testing.T) {
	f := newFixture()
	f.certs.createErr = errors.New("db down")
	actor := user.Actor{ID: uuid.New(), Role: user.RoleProfessional}

	_, err := f.svc.AddCertificate(context.Background(), actor, CertificateInput{Name: "Welding Level 2"}, upload.File{Name: "w.pdf"})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if len(f.uploads.deleted) != 1 || f.uploads.deleted[0] != "certificates/"+actor.ID.String()+"/1_w.pdf" {
		t.Fatalf("expected the uploaded file to be removed, got %v", f.uploads.deleted)
	}
}

func TestCertificateLifecycle(t *testing.T) {
	f := newFixture()
	actor := user.Actor{ID: uuid.New(), Role: user.RoleProfessional}
	ctx := context.Background()

	c, err := f.svc.AddCertificate(ctx, actor, CertificateInput{Name: "Electrical Safety", Issuer: "NCTVA", IssuedAt: "2023-05-01"}, upload.File{Name: "e.pdf"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.IssuedAt == nil || c.IssuedAt.Format(time.DateOnly) != "2023-05-01" {
		t.Fatalf("unexpected issue date %v", c.IssuedAt)
	}

	stranger := user.Actor{ID: uuid.New(), Role: user.RoleProfessional}
	if err := f.svc.DeleteCertificate(ctx, stranger, c.ID); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.DeleteCertificate(ctx, actor, c.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	certs, _ := f.svc.Certificates(ctx, actor.ID)
	if len(certs) != 0 || len(f.uploads.deleted) != 1 {
		t.Fatalf("expected record and file removed, certs=%d deleted=%v", len(certs), f.uploads.deleted)
	}
}

func TestCertificateInput_Validate(t *testing.T) {
	var fe validation.Errors
	err := CertificateInput{Name: "x", IssuedAt: "01/05/2023"}.Validate()
	if !errors.As(err, &fe) || fe["name"] == "" || fe["issuedAt"] == "" {
		t.Fatalf("unexpected errors %v", err)
	}
}

func TestSetLogo_RequiresEmployerProfile(t *testing.T) {
	f := newFixture()
	actor := user.Actor{ID: uuid.New(), Role: user.RoleEmployer}
	if _, err := f.svc.SetLogo(context.Background(), actor, upload.File{Name: "logo.png"}); !errors.Is(err, professional.ErrEmployerNotFound) {
		t.Fatalf("expected ErrEmployerNotFound, got %v", err)
	}
	f.emps.items[actor.ID] = professional.Employer{UserID: actor.ID, CompanyName: "Kamara Construction Ltd"}
	obj, err := f.svc.SetLogo(context.Background(), actor, upload.File{Name: "logo.png"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.emps.items[actor.ID].LogoURL != obj.URL {
		t.Fatalf("logo url not stored")
	}
}
