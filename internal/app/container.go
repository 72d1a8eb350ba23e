package app

import (
	"context"
	"time"

	"mammy-coker-hub/internal/config"
	"mammy-coker-hub/internal/database"
	dbpostgres "mammy-coker-hub/internal/database/postgres"
	"mammy-coker-hub/internal/pkg/logging"
)

// Container holds the connections the operator commands need. The HTTP
// server is assembled by InitializeServer instead.
type Container struct {
	Config config.Config
	Logger *logging.Logger
	DB     database.DB
}

func NewContainer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &Container{Config: cfg, Logger: logger, DB: db}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
