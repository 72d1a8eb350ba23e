package app

import (
	"context"

	"mammy-coker-hub/internal/repository"
	"mammy-coker-hub/internal/usecase/auth"
	"mammy-coker-hub/internal/usecase/notification"
	"mammy-coker-hub/internal/ws"
)

// NewAuthClient builds a session client over the configured identity
// provider for the operator CLI.
func (c *Container) NewAuthClient(ctx context.Context) (*auth.Client, func(), error) {
	tokens := provideTokens(c.Config)
	provider, cleanup, err := provideIdentity(ctx, c.Config, c.DB, tokens, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	roles := repository.NewPostgresRoleRepository(c.DB)
	m := provideMailer(c.Config, provider, provideSender(c.Config, c.Logger), c.Logger)
	svc := provideAuthService(c.Config, provider, repository.NewPostgresProfileRepository(c.DB), roles, m, c.Logger)
	return auth.NewClient(svc), cleanup, nil
}

// NewNotifier stores notifications and publishes them through Redis, so a
// running server pushes them to connected clients. Without Redis the row is
// still written and shows up on the next fetch.
func (c *Container) NewNotifier() (*notification.Service, func()) {
	redis, cleanup := provideCache(c.Config, c.Logger)
	relay := ws.NewRelay(nil, redis, c.Logger)
	return notification.NewService(repository.NewPostgresNotificationRepository(c.DB), relay, c.Logger), cleanup
}
