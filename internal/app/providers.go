package app

import (
	"context"
	"time"

	"mammy-coker-hub/internal/config"
	"mammy-coker-hub/internal/database"
	dbpostgres "mammy-coker-hub/internal/database/postgres"
	"mammy-coker-hub/internal/delivery/http/handler"
	"mammy-coker-hub/internal/delivery/http/middleware"
	"mammy-coker-hub/internal/delivery/http/routes"
	v1 "mammy-coker-hub/internal/delivery/http/routes/v1"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/identity"
	"mammy-coker-hub/internal/identity/gotrue"
	"mammy-coker-hub/internal/identity/local"
	aiclient "mammy-coker-hub/internal/infrastructure/assistant"
	"mammy-coker-hub/internal/infrastructure/cache"
	"mammy-coker-hub/internal/infrastructure/email"
	credentials "mammy-coker-hub/internal/infrastructure/persistence/postgres"
	"mammy-coker-hub/internal/infrastructure/storage"
	"mammy-coker-hub/internal/pkg/jwt"
	"mammy-coker-hub/internal/pkg/logging"
	"mammy-coker-hub/internal/repository"
	"mammy-coker-hub/internal/usecase/assistant"
	"mammy-coker-hub/internal/usecase/auth"
	"mammy-coker-hub/internal/usecase/job"
	"mammy-coker-hub/internal/usecase/mailer"
	"mammy-coker-hub/internal/usecase/message"
	"mammy-coker-hub/internal/usecase/notification"
	"mammy-coker-hub/internal/usecase/professional"
	"mammy-coker-hub/internal/usecase/upload"
	"mammy-coker-hub/internal/ws"

	"github.com/google/wire"
)

// UploadsPrefix is where the disk store's objects are served from.
const UploadsPrefix = "/uploads"

var infraSet = wire.NewSet(
	provideDB,
	provideCache,
	provideTokens,
	wire.Bind(new(jwt.Service), new(*jwt.HMACService)),
	provideIdentity,
	provideStore,
	provideCompleter,
	wire.Bind(new(assistant.Completer), new(*aiclient.Client)),
	provideSender,
	wire.Bind(new(mailer.Sender), new(*email.Resend)),
)

var repositorySet = wire.NewSet(
	repository.NewPostgresProfileRepository,
	wire.Bind(new(user.ProfileRepository), new(*repository.PostgresProfileRepository)),
	repository.NewPostgresRoleRepository,
	wire.Bind(new(user.RoleRepository), new(*repository.PostgresRoleRepository)),
	repository.NewPostgresJobRepository,
	wire.Bind(new(repository.JobRepository), new(*repository.PostgresJobRepository)),
	repository.NewPostgresSavedJobRepository,
	wire.Bind(new(repository.SavedJobRepository), new(*repository.PostgresSavedJobRepository)),
	repository.NewPostgresApplicationRepository,
	wire.Bind(new(repository.ApplicationRepository), new(*repository.PostgresApplicationRepository)),
	repository.NewPostgresInvitationRepository,
	wire.Bind(new(repository.InvitationRepository), new(*repository.PostgresInvitationRepository)),
	repository.NewPostgresProfessionalRepository,
	wire.Bind(new(repository.ProfessionalRepository), new(*repository.PostgresProfessionalRepository)),
	repository.NewPostgresEmployerRepository,
	wire.Bind(new(repository.EmployerRepository), new(*repository.PostgresEmployerRepository)),
	repository.NewPostgresCertificateRepository,
	wire.Bind(new(repository.CertificateRepository), new(*repository.PostgresCertificateRepository)),
	repository.NewPostgresConversationRepository,
	wire.Bind(new(repository.ConversationRepository), new(*repository.PostgresConversationRepository)),
	repository.NewPostgresNotificationRepository,
	wire.Bind(new(repository.NotificationRepository), new(*repository.PostgresNotificationRepository)),
)

var realtimeSet = wire.NewSet(
	ws.NewHub,
	ws.NewRelay,
	wire.Bind(new(ws.Broker), new(*cache.Redis)),
	wire.Bind(new(notification.Publisher), new(*ws.Relay)),
	wire.Bind(new(message.Publisher), new(*ws.Relay)),
)

var serviceSet = wire.NewSet(
	provideMailer,
	wire.Bind(new(auth.AuthMailer), new(*mailer.Service)),
	provideAuthService,
	auth.NewVerifier,
	notification.NewService,
	wire.Bind(new(job.Notifier), new(*notification.Service)),
	wire.Bind(new(professional.Notifier), new(*notification.Service)),
	wire.Bind(new(message.Notifier), new(*notification.Service)),
	wire.Bind(new(job.Cache), new(*cache.Redis)),
	wire.Bind(new(job.ProfessionalLookup), new(*repository.PostgresProfessionalRepository)),
	wire.Bind(new(professional.Throttle), new(*cache.Redis)),
	job.NewService,
	upload.NewService,
	wire.Bind(new(professional.Uploader), new(*upload.Service)),
	professional.NewService,
	message.NewService,
	provideAssistant,
)

var deliverySet = wire.NewSet(
	wire.Bind(new(middleware.TokenAuthenticator), new(*auth.Verifier)),
	wire.Bind(new(ws.TokenAuthenticator), new(*auth.Verifier)),
	wire.Bind(new(ws.ConversationAuthorizer), new(*message.Service)),
	middleware.NewAuthMiddleware,
	ws.NewHandler,
	wire.Bind(new(handler.AuthService), new(*auth.Service)),
	handler.NewAuthHandler,
	wire.Bind(new(handler.JobService), new(*job.Service)),
	handler.NewJobsHandler,
	wire.Bind(new(handler.ProfessionalService), new(*professional.Service)),
	handler.NewProfessionalsHandler,
	wire.Bind(new(handler.UploadService), new(*upload.Service)),
	handler.NewUploadsHandler,
	wire.Bind(new(handler.MessageService), new(*message.Service)),
	handler.NewMessagesHandler,
	wire.Bind(new(handler.NotificationService), new(*notification.Service)),
	handler.NewNotificationsHandler,
	wire.Bind(new(handler.AssistantService), new(*assistant.Service)),
	wire.Bind(new(handler.MailerService), new(*mailer.Service)),
	wire.Bind(new(handler.NotificationSender), new(*notification.Service)),
	handler.NewFunctionsHandler,
	provideHealthHandler,
	wire.Struct(new(v1.Handlers), "*"),
	routes.NewRegistry,
	NewServer,
)

// ProviderSet builds the HTTP server from configuration.
var ProviderSet = wire.NewSet(infraSet, repositorySet, realtimeSet, serviceSet, deliverySet)

func provideDB(ctx context.Context, cfg config.Config) (database.DB, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

func provideCache(cfg config.Config, logger *logging.Logger) (*cache.Redis, func()) {
	r := cache.NewRedis(cfg.Redis, logger)
	return r, func() { _ = r.Close() }
}

func provideTokens(cfg config.Config) *jwt.HMACService {
	return jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn)
}

// provideIdentity picks the hosted identity service or the local credential
// store. In hosted mode JWT_ACCESS_SECRET must be the service's signing secret
// so the verifier accepts its tokens.
func provideIdentity(ctx context.Context, cfg config.Config, db database.DB, tokens jwt.Service, logger *logging.Logger) (identity.Provider, func(), error) {
	if cfg.Identity.Mode == config.IdentityModeHosted {
		return gotrue.New(cfg.Identity.URL, cfg.Identity.AnonKey, cfg.Identity.ServiceKey, logger), func() {}, nil
	}

	creds, err := credentials.NewCredentialRepository(ctx, db.SQLDB())
	if err != nil {
		return nil, nil, err
	}
	return local.New(creds, tokens, cfg.App.PublicURL, logger), func() { _ = creds.Close() }, nil
}

// provideStore uses the hosted object store when it is configured and the
// local disk otherwise.
func provideStore(cfg config.Config, logger *logging.Logger) upload.Store {
	if cfg.Storage.URL != "" && cfg.Storage.ServiceKey != "" {
		return storage.NewClient(cfg.Storage.URL, cfg.Storage.ServiceKey, logger)
	}
	return storage.NewDisk(cfg.Storage.Dir, cfg.Storage.PublicURL)
}

func provideCompleter(cfg config.Config, logger *logging.Logger) *aiclient.Client {
	return aiclient.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, logger)
}

func provideSender(cfg config.Config, logger *logging.Logger) *email.Resend {
	return email.NewResend(cfg.Email.BaseURL, cfg.Email.APIKey, logger)
}

func provideMailer(cfg config.Config, links identity.Provider, sender mailer.Sender, logger *logging.Logger) *mailer.Service {
	return mailer.NewService(links, sender, cfg.App.AppName, cfg.Email.From, cfg.App.PublicURL, logger)
}

func provideAuthService(cfg config.Config, provider identity.Provider, profiles user.ProfileRepository, roles user.RoleRepository, m auth.AuthMailer, logger *logging.Logger) *auth.Service {
	return auth.NewService(provider, profiles, roles, m, cfg.App.PublicURL, logger)
}

func provideAssistant(cfg config.Config, completer assistant.Completer, logger *logging.Logger) *assistant.Service {
	return assistant.NewService(completer, cfg.AI.Model, logger)
}

func provideHealthHandler(db database.DB, redis *cache.Redis, hub *ws.Hub) *handler.HealthHandler {
	return handler.NewHealthHandler(db, redis, hub)
}
