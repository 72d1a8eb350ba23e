// Package listing applies independent facet filters to in-memory lists of
// jobs and professionals. Every facet defaults to "no constraint" and results
// keep the order of the source list.
package listing

import (
	"strings"

	"mammy-coker-hub/internal/domain/job"
	"mammy-coker-hub/internal/domain/professional"
)

type Predicate[T any] func(T) bool

// Filter returns the items satisfying every predicate. The input is never
// modified and the result is never nil.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matchesAll(it, preds) {
			out = append(out, it)
		}
	}
	return out
}

func matchesAll[T any](it T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(it) {
			return false
		}
	}
	return true
}

// SalaryRange is an inclusive monthly salary window.
type SalaryRange struct {
	Min int64
	Max int64
}

// DefaultSalaryRange is the slider's initial position.
var DefaultSalaryRange = SalaryRange{Min: 0, Max: 10000}

// Contains reports whether the whole job range [lo, hi] lies inside r.
func (r SalaryRange) Contains(lo, hi int64) bool {
	return lo >= r.Min && hi <= r.Max
}

type JobFilter struct {
	Search   string
	Category string
	Location string
	Type     string
	Salary   *SalaryRange
}

func (f JobFilter) Predicates() []Predicate[job.Job] {
	preds := make([]Predicate[job.Job], 0, 5)

	if q := Normalize(f.Search); q != "" {
		preds = append(preds, func(j job.Job) bool {
			return containsText(q, j.Title, j.Description, j.Company)
		})
	}
	if !isUnconstrained(f.Category) {
		want := strings.TrimSpace(f.Category)
		preds = append(preds, func(j job.Job) bool { return j.Category == want })
	}
	if !isUnconstrained(f.Location) {
		want := strings.TrimSpace(f.Location)
		preds = append(preds, func(j job.Job) bool { return j.Location == want })
	}
	if !isUnconstrained(f.Type) {
		want := job.Type(strings.TrimSpace(f.Type))
		preds = append(preds, func(j job.Job) bool { return j.Type == want })
	}
	if f.Salary != nil {
		r := *f.Salary
		preds = append(preds, func(j job.Job) bool { return r.Contains(j.SalaryMin, j.SalaryMax) })
	}

	return preds
}

func (f JobFilter) Apply(jobs []job.Job) []job.Job {
	return Filter(jobs, f.Predicates()...)
}

// ActiveCount counts the selected facets, not counting free-text search.
func (f JobFilter) ActiveCount() int {
	n := 0
	for _, set := range []bool{
		!isUnconstrained(f.Category),
		!isUnconstrained(f.Location),
		!isUnconstrained(f.Type),
		f.Salary != nil && *f.Salary != DefaultSalaryRange,
	} {
		if set {
			n++
		}
	}
	return n
}

type ProfessionalFilter struct {
	Search       string
	Category     string
	Location     string
	Availability string
	MinRating    float64
}

func (f ProfessionalFilter) Predicates() []Predicate[professional.Professional] {
	preds := make([]Predicate[professional.Professional], 0, 5)

	if q := Normalize(f.Search); q != "" {
		preds = append(preds, func(p professional.Professional) bool {
			if containsText(q, p.Name, p.Bio) {
				return true
			}
			return containsText(q, p.Skills...)
		})
	}
	if !isUnconstrained(f.Category) {
		want := strings.TrimSpace(f.Category)
		preds = append(preds, func(p professional.Professional) bool { return p.Category == want })
	}
	if !isUnconstrained(f.Location) {
		want := strings.TrimSpace(f.Location)
		preds = append(preds, func(p professional.Professional) bool { return p.Location == want })
	}
	if !isUnconstrained(f.Availability) {
		want := professional.Availability(strings.TrimSpace(f.Availability))
		preds = append(preds, func(p professional.Professional) bool { return p.Availability == want })
	}
	if f.MinRating > 0 {
		minRating := f.MinRating
		preds = append(preds, func(p professional.Professional) bool { return p.Rating >= minRating })
	}

	return preds
}

func (f ProfessionalFilter) Apply(pros []professional.Professional) []professional.Professional {
	return Filter(pros, f.Predicates()...)
}

func (f ProfessionalFilter) ActiveCount() int {
	n := 0
	for _, set := range []bool{
		!isUnconstrained(f.Category),
		!isUnconstrained(f.Location),
		!isUnconstrained(f.Availability),
		f.MinRating > 0,
	} {
		if set {
			n++
		}
	}
	return n
}
