package seeder

import (
	"context"

	"mammy-coker-hub/internal/database"

	"github.com/google/uuid"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// demoNamespace keeps demo ids stable so seeding twice updates nothing.
var demoNamespace = uuid.MustParse("6f1c7c2e-6a43-4d0e-9d7b-1c1f4e2a9b10")

func demoID(kind, name string) uuid.UUID {
	return uuid.NewSHA1(demoNamespace, []byte(kind+":"+name))
}
