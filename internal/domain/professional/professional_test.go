package professional

import (
	"errors"
	"reflect"
	"testing"

	"mammy-coker-hub/internal/domain/validation"
)

func TestSplitSkills(t *testing.T) {
	got := SplitSkills(" Wiring, Solar Installation ,,wiring, Maintenance")
	want := []string{"Wiring", "Solar Installation", "Maintenance"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitSkills = %v, want %v", got, want)
	}
}

func TestOnboardingValidate(t *testing.T) {
	ok := Onboarding{
		FullName:        "Ibrahim Kamara",
		Phone:           "+23276123456",
		Location:        "Freetown",
		Category:        "Carpentry",
		YearsExperience: "8",
		Skills:          "Furniture Making, Cabinet Installation",
		Bio:             "Expert carpenter specializing in custom furniture",
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	bad := ok
	bad.YearsExperience = "-1"
	bad.Bio = "short"
	bad.Availability = "Sometimes"

	var fe validation.Errors
	if !errors.As(bad.Validate(), &fe) {
		t.Fatalf("expected validation errors")
	}
	for _, f := range []string{"yearsExperience", "bio", "availability"} {
		if _, ok := fe[f]; !ok {
			t.Errorf("expected error on %s", f)
		}
	}
}

func TestOnboardingApply(t *testing.T) {
	var p Professional
	Onboarding{
		FullName:        " Fatmata Sesay ",
		Location:        "Bo",
		Category:        "Electrical",
		YearsExperience: "1",
		Skills:          "Wiring",
		Bio:             "Certified electrician",
	}.Apply(&p)

	if p.Name != "Fatmata Sesay" || p.YearsExperience != 1 {
		t.Fatalf("unexpected professional %+v", p)
	}
	if p.Availability != AvailabilityAvailable {
		t.Fatalf("expected default availability")
	}
	if p.ExperienceLabel() != "1 year" {
		t.Fatalf("unexpected label %q", p.ExperienceLabel())
	}
}

func TestEmployerOnboardingValidate(t *testing.T) {
	o := EmployerOnboarding{
		CompanyName: "ABC Construction",
		ContactName: "Mohamed Bangura",
		Email:       "hr@abc.sl",
		Phone:       "+23277000000",
		Location:    "Freetown",
		CompanySize: "11-50",
		Industry:    "Construction",
		Description: "Residential and commercial builders since 2004.",
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	o.Website = "abc.sl"
	o.Email = "not-an-email"
	var fe validation.Errors
	if !errors.As(o.Validate(), &fe) {
		t.Fatalf("expected validation errors")
	}
	if fe["website"] == "" || fe["email"] == "" {
		t.Fatalf("expected website and email errors, got %v", fe)
	}
}
