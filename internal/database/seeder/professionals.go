package seeder

import (
	"context"
	"fmt"
	"strings"

	"mammy-coker-hub/internal/database"
)

type ProfessionalsSeeder struct{}

func (ProfessionalsSeeder) Name() string { return "professionals" }

type demoProfessional struct {
	Name         string
	Category     string
	Location     string
	Years        int
	Rating       float64
	Reviews      int
	Skills       []string
	Bio          string
	Availability string
}

var demoProfessionals = []demoProfessional{
	{Name: "Ibrahim Kamara", Category: "Carpentry", Location: "Freetown", Years: 8, Rating: 4.9, Reviews: 32, Skills: []string{"Furniture Making", "Cabinet Installation", "Custom Work"}, Bio: "Expert carpenter specializing in custom furniture and installations", Availability: "Available"},
	{Name: "Fatmata Sesay", Category: "Electrical", Location: "Bo", Years: 6, Rating: 4.8, Reviews: 28, Skills: []string{"Wiring", "Solar Installation", "Repairs"}, Bio: "Licensed electrician with commercial and residential experience", Availability: "Available"},
	{Name: "Mohamed Bangura", Category: "Plumbing", Location: "Kenema", Years: 10, Rating: 5.0, Reviews: 45, Skills: []string{"Pipe Installation", "Water Systems", "Repairs"}, Bio: "Master plumber with expertise in modern water systems", Availability: "Busy"},
	{Name: "Aminata Conteh", Category: "Tailoring", Location: "Freetown", Years: 12, Rating: 4.7, Reviews: 56, Skills: []string{"Dress Making", "Alterations", "Traditional Wear"}, Bio: "Expert tailor specializing in traditional and modern African designs", Availability: "Available"},
	{Name: "Samuel Koroma", Category: "Masonry", Location: "Makeni", Years: 15, Rating: 4.9, Reviews: 67, Skills: []string{"Brick Laying", "Concrete Work", "Tiling"}, Bio: "Master mason with experience in residential and commercial projects", Availability: "Available"},
	{Name: "Mariama Jalloh", Category: "Catering", Location: "Freetown", Years: 9, Rating: 4.6, Reviews: 41, Skills: []string{"Event Catering", "Traditional Cuisine", "Pastries"}, Bio: "Professional caterer for weddings, parties, and corporate events", Availability: "Busy"},
	{Name: "Abdul Rahman", Category: "Carpentry", Location: "Bo", Years: 5, Rating: 4.5, Reviews: 19, Skills: []string{"Door Installation", "Roofing", "Repairs"}, Bio: "Skilled carpenter with focus on home improvement projects", Availability: "Available"},
	{Name: "Isatu Mansaray", Category: "Electrical", Location: "Freetown", Years: 7, Rating: 4.8, Reviews: 34, Skills: []string{"Industrial Wiring", "Generator Installation", "Maintenance"}, Bio: "Industrial electrician with expertise in power systems", Availability: "Available"},
}

func (ProfessionalsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "professionals",
		"user_id", "name", "category", "location", "years_experience", "rating", "reviews", "skills", "bio", "availability",
	); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, p := range demoProfessionals {
		id := demoID("professional", p.Name)

		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, 'professional') ON CONFLICT (user_id) DO NOTHING`,
			id,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO profiles (user_id, email, full_name, location) VALUES ($1,$2,$3,$4)
			 ON CONFLICT (user_id) DO NOTHING`,
			id, strings.ToLower(strings.ReplaceAll(p.Name, " ", "."))+"@example.sl", p.Name, p.Location,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO professionals (user_id, name, category, location, years_experience, rating, reviews, skills, bio, availability)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			 ON CONFLICT (user_id) DO NOTHING`,
			id, p.Name, p.Category, p.Location, p.Years, p.Rating, p.Reviews, p.Skills, p.Bio, p.Availability,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
