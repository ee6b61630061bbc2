package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/convocatorias/portal/internal/app/controllers"
	"github.com/convocatorias/portal/internal/app/lookups"
	appMigrations "github.com/convocatorias/portal/internal/app/migrations"
	"github.com/convocatorias/portal/internal/app/models"
	appRepos "github.com/convocatorias/portal/internal/app/repositories"
	appRoutes "github.com/convocatorias/portal/internal/app/routes"
	appServices "github.com/convocatorias/portal/internal/app/services"
	"github.com/convocatorias/portal/internal/config"
	"github.com/convocatorias/portal/internal/db"
	appMiddleware "github.com/convocatorias/portal/internal/middleware"
	pkgAuth "github.com/convocatorias/portal/internal/pkg/auth"
	"github.com/convocatorias/portal/internal/pkg/email"
	"github.com/convocatorias/portal/internal/pkg/filestorage"
	"github.com/convocatorias/portal/internal/pkg/janitor"
	"github.com/convocatorias/portal/internal/pkg/logger"
	"github.com/convocatorias/portal/internal/pkg/store"
	"github.com/convocatorias/portal/internal/pkg/websocket"
	"github.com/convocatorias/portal/internal/seed"
)

// Stores holds one store per resource
type Stores struct {
	Calls           *store.Store[models.Call]
	CallHistory     *store.Store[models.CallHistory]
	Companies       *store.Store[models.Company]
	Users           *store.Store[models.User]
	Cities          *store.Store[models.City]
	Departments     *store.Store[models.Department]
	Interests       *store.Store[models.Interest]
	Requirements    *store.Store[models.Requirement]
	Roles           *store.Store[models.Role]
	Lines           *store.Store[models.Line]
	TargetAudiences *store.Store[models.TargetAudience]
	Institutions    *store.Store[models.Institution]
	Types           *store.Store[models.Type]
	Checks          *store.Store[models.Check]
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Stores        *Stores
	Confirmations *store.Confirmations
	Lookups       lookups.Set

	CallService        *appServices.CallService
	FavoritesService   *appServices.FavoritesService
	ExplorerService    *appServices.ExplorerService
	HomeService        *appServices.HomeService
	PreferencesService *appServices.PreferencesService
	AuthService        *appServices.AuthService
	ProfileService     *appServices.ProfileService

	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	ResetTokens    *appRepos.ResetTokenRepository
	Images         filestorage.FileStorage
	Hub            *websocket.Hub
	Janitor        *janitor.Janitor

	Controllers appRoutes.Controllers
	Logger      zerolog.Logger

	unsubscribe []func()
}

// Start runs the event hub and the janitor until ctx is cancelled or Stop is called
func (d *Dependencies) Start(ctx context.Context) {
	go d.Hub.Run(ctx)
	d.Janitor.Start()
}

// Stop waits for running janitor tasks and releases subscriptions
func (d *Dependencies) Stop(ctx context.Context) {
	if d.Janitor != nil {
		d.Janitor.Stop(ctx)
	}
	d.Close()
}

// Close detaches store subscriptions and lookup indexes
func (d *Dependencies) Close() {
	for _, stop := range d.unsubscribe {
		stop()
	}
	d.unsubscribe = nil

	for _, idx := range []*lookups.Index{
		d.Lookups.Institutions,
		d.Lookups.Lines,
		d.Lookups.TargetAudiences,
		d.Lookups.Interests,
		d.Lookups.Roles,
	} {
		if idx != nil {
			idx.Close()
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
// It returns nil when the memory driver is configured.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if cfg.Storage.Driver != config.StoragePostgres {
		lgr.Info().Msg("Memory storage configured, skipping database setup")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(ctx, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

// RunMigrations applies the embedded migrations.
func RunMigrations(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool).Migrate(ctx, appMigrations.Files())
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// builder carries what every store needs while dependencies are assembled
type builder struct {
	ctx      context.Context
	cfg      *config.Config
	database *db.PostgresDB
	hub      *websocket.Hub
	logger   zerolog.Logger
	deps     *Dependencies
}

// openStore creates the store of resource, loads persisted records and seeds
// it when empty. Changes of public resources are streamed to the hub.
func openStore[T store.Entity[T]](b *builder, resource string, public bool, samples func() ([]T, error), extra ...store.Option[T]) (*store.Store[T], error) {
	opts := append([]store.Option[T]{}, extra...)
	var repo *appRepos.RecordRepository[T]
	if b.database != nil && !b.cfg.IsLocalOnly(resource) {
		repo = appRepos.NewRecordRepository[T](b.database, resource)
		opts = append(opts, store.WithPersister[T](repo))
	}

	st := store.New[T](resource, opts...)
	if err := st.Load(b.ctx); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", resource, err)
	}

	if b.cfg.Storage.Seed && samples != nil {
		items, err := samples()
		if err != nil {
			return nil, fmt.Errorf("failed to build sample %s: %w", resource, err)
		}
		var save seed.SaveAllFunc[T]
		if repo != nil {
			save = repo.SaveAll
		}
		if _, err := seed.Into(b.ctx, st, items, save, b.logger); err != nil {
			return nil, err
		}
	}

	if public && b.hub != nil {
		hub := b.hub
		b.deps.unsubscribe = append(b.deps.unsubscribe, st.Subscribe(func(c store.Change[T]) {
			event := websocket.Event{Resource: c.Resource, Op: string(c.Op), ID: c.ID}
			if c.Op != store.OpDeleted {
				event.Item = c.Item
			}
			hub.Publish(event)
		}))
	}

	b.logger.Debug().Str("resource", resource).Int("records", st.Len()).Bool("persisted", repo != nil).Msg("Store ready")
	return st, nil
}

// fixed adapts a sample constructor to openStore
func fixed[T any](fn func() []T) func() ([]T, error) {
	return func() ([]T, error) { return fn(), nil }
}

func buildStores(b *builder) (*Stores, error) {
	s := &Stores{}
	var err error

	if s.Institutions, err = openStore(b, models.ResourceInstitutions, true, fixed(seed.Institutions)); err != nil {
		return nil, err
	}
	if s.Lines, err = openStore(b, models.ResourceLines, true, fixed(seed.Lines)); err != nil {
		return nil, err
	}
	if s.TargetAudiences, err = openStore(b, models.ResourceTargetAudiences, true, fixed(seed.TargetAudiences)); err != nil {
		return nil, err
	}
	if s.Interests, err = openStore(b, models.ResourceInterests, true, fixed(seed.Interests)); err != nil {
		return nil, err
	}
	if s.Types, err = openStore(b, models.ResourceTypes, true, fixed(seed.Types)); err != nil {
		return nil, err
	}
	if s.Requirements, err = openStore(b, models.ResourceRequirements, true, fixed(seed.Requirements)); err != nil {
		return nil, err
	}
	if s.Roles, err = openStore(b, models.ResourceRoles, true, fixed(seed.Roles)); err != nil {
		return nil, err
	}
	if s.Departments, err = openStore(b, models.ResourceDepartments, true, fixed(seed.Departments)); err != nil {
		return nil, err
	}
	if s.Cities, err = openStore(b, models.ResourceCities, true, fixed(seed.Cities)); err != nil {
		return nil, err
	}
	if s.Calls, err = openStore(b, models.ResourceCalls, true, fixed(seed.Calls)); err != nil {
		return nil, err
	}

	// Administrative collections are not streamed
	if s.Companies, err = openStore(b, models.ResourceCompanies, false, fixed(seed.Companies)); err != nil {
		return nil, err
	}
	if s.Checks, err = openStore(b, models.ResourceChecks, false, fixed(seed.Checks)); err != nil {
		return nil, err
	}
	if s.CallHistory, err = openStore(b, models.ResourceCallHistory, false, fixed(seed.CallHistory)); err != nil {
		return nil, err
	}
	adminEmail, adminPassword := b.cfg.Storage.AdminEmail, b.cfg.Storage.AdminPassword
	if s.Users, err = openStore(b, models.ResourceUsers, false, func() ([]models.User, error) {
		return seed.Users(adminEmail, adminPassword)
	}, appServices.UniqueEmail()); err != nil {
		return nil, err
	}

	return s, nil
}

// counters maps every resource onto its store for the home page
func (s *Stores) counters() map[string]appServices.Counter {
	return map[string]appServices.Counter{
		models.ResourceCalls:           s.Calls,
		models.ResourceCallHistory:     s.CallHistory,
		models.ResourceCompanies:       s.Companies,
		models.ResourceUsers:           s.Users,
		models.ResourceCities:          s.Cities,
		models.ResourceDepartments:     s.Departments,
		models.ResourceInterests:       s.Interests,
		models.ResourceRequirements:    s.Requirements,
		models.ResourceRoles:           s.Roles,
		models.ResourceLines:           s.Lines,
		models.ResourceTargetAudiences: s.TargetAudiences,
		models.ResourceInstitutions:    s.Institutions,
		models.ResourceTypes:           s.Types,
		models.ResourceChecks:          s.Checks,
	}
}

// setupImageStorage selects the image backend configured for calls
func setupImageStorage(ctx context.Context, cfg *config.Config) (filestorage.FileStorage, string, error) {
	if cfg.Images.Driver == config.ImagesS3 {
		images, err := filestorage.NewS3Storage(ctx, filestorage.S3Config{
			Bucket:    cfg.Images.Bucket,
			Region:    cfg.Images.Region,
			Endpoint:  cfg.Images.Endpoint,
			PublicURL: cfg.Images.PublicURL,
			AccessKey: cfg.Images.AccessKey,
			SecretKey: cfg.Images.SecretKey,
		})
		if err != nil {
			return nil, "", err
		}
		return images, "", nil
	}

	// Must match the static route mounted by the router
	baseURL := strings.TrimRight(cfg.Server.BaseURL, "/") + "/uploads"
	images, err := filestorage.NewLocalStorage(cfg.Images.LocalPath, baseURL)
	if err != nil {
		return nil, "", err
	}
	return images, images.BasePath(), nil
}

// BuildDependencies initializes stores, services and controllers. database
// may be nil, in which case everything stays in memory.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Hub = websocket.NewHub(logger.Component("websocket"))

	b := &builder{
		ctx:      ctx,
		cfg:      cfg,
		database: database,
		hub:      deps.Hub,
		logger:   logger.Component("seed"),
		deps:     deps,
	}

	stores, err := buildStores(b)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Stores = stores
	deps.Confirmations = store.NewConfirmations(cfg.Catalog.ConfirmationTTL)

	deps.Lookups = lookups.Set{
		Institutions:    lookups.NewIndex(stores.Institutions),
		Lines:           lookups.NewIndex(stores.Lines),
		TargetAudiences: lookups.NewIndex(stores.TargetAudiences),
		Interests:       lookups.NewIndex(stores.Interests),
		Roles:           lookups.NewIndex(stores.Roles),
	}

	// Catalog services
	catalogLog := logger.Component("catalog")
	calls := appServices.NewCatalogService(stores.Calls, deps.Confirmations, catalogLog)
	users := appServices.NewUserCatalog(stores.Users, deps.Confirmations, catalogLog)

	var uploadsDir string
	deps.Images, uploadsDir, err = setupImageStorage(ctx, cfg)
	if err != nil {
		deps.Close()
		lgr.Error().Err(err).Msg("Failed to initialize image storage")
		return nil, fmt.Errorf("failed to initialize image storage: %w", err)
	}

	deps.CallService = appServices.NewCallService(calls, deps.Lookups, deps.Images,
		int64(cfg.Images.MaxSizeMB)<<20, logger.Component("calls"))
	deps.FavoritesService = appServices.NewFavoritesService(stores.Calls)
	deps.unsubscribe = append(deps.unsubscribe, stores.Calls.Subscribe(func(c store.Change[models.Call]) {
		if c.Op == store.OpDeleted {
			deps.FavoritesService.Forget(c.ID)
		}
	}))
	deps.ExplorerService = appServices.NewExplorerService(stores.Calls, deps.FavoritesService,
		deps.Lookups.Institutions, cfg.Catalog.PageSize)
	deps.HomeService = appServices.NewHomeService(stores.Calls, stores.Lines, stores.counters())

	var preferenceRepo appRepos.PreferenceRepository = appRepos.NewMemoryPreferenceRepository()
	if database != nil && !cfg.IsLocalOnly("preferences") {
		preferenceRepo = appRepos.NewPostgresPreferenceRepository(database.Pool)
	}
	deps.PreferencesService = appServices.NewPreferencesService(preferenceRepo, logger.Component("preferences"))

	// Accounts
	deps.ResetTokens = appRepos.NewResetTokenRepository(cfg.Catalog.ResetTokenTTL)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.JWT.AccessTokenExpiration,
		TokenIssuer:    cfg.JWT.Issuer,
	})
	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.Server.BaseURL,
	}, logger.Component("email"))
	deps.AuthService = appServices.NewAuthService(users, stores.Roles, deps.Lookups.Roles,
		deps.ResetTokens, deps.JWTService, mailer, logger.Component("auth"))
	deps.ProfileService = appServices.NewProfileService(users, deps.Lookups.Roles, deps.AuthService)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	deps.Janitor, err = janitor.New(cfg.Catalog.JanitorSchedule, logger.Component("janitor"),
		janitor.Task{Name: "confirmations", Purge: deps.Confirmations.PurgeExpired},
		janitor.Task{Name: "reset-tokens", Purge: deps.ResetTokens.PurgeExpired},
	)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to schedule janitor: %w", err)
	}

	var health appControllers.Pinger
	if database != nil {
		health = database.Pool
	}

	deps.Controllers = appRoutes.Controllers{
		PublicResources: []appRoutes.ResourceRoutes{
			appControllers.NewResourceController(calls),
			resourceController(stores.Cities, deps.Confirmations, catalogLog),
			resourceController(stores.Departments, deps.Confirmations, catalogLog),
			resourceController(stores.Interests, deps.Confirmations, catalogLog),
			resourceController(stores.Requirements, deps.Confirmations, catalogLog),
			resourceController(stores.Roles, deps.Confirmations, catalogLog),
			resourceController(stores.Lines, deps.Confirmations, catalogLog),
			resourceController(stores.TargetAudiences, deps.Confirmations, catalogLog),
			resourceController(stores.Institutions, deps.Confirmations, catalogLog),
			resourceController(stores.Types, deps.Confirmations, catalogLog),
		},
		AdminResources: []appRoutes.ResourceRoutes{
			appControllers.NewResourceController(users, appControllers.WithPresenter(func(u models.User) interface{} {
				return deps.ProfileService.UserResponse(u)
			})),
			resourceController(stores.Companies, deps.Confirmations, catalogLog),
			resourceController(stores.Checks, deps.Confirmations, catalogLog),
			resourceController(stores.CallHistory, deps.Confirmations, catalogLog),
		},
		Confirmation: appControllers.NewConfirmationController(deps.Confirmations),
		Call:         appControllers.NewCallController(deps.CallService),
		Explorer:     appControllers.NewExplorerController(deps.ExplorerService, deps.HomeService),
		Favorites:    appControllers.NewFavoritesController(deps.FavoritesService),
		Preferences:  appControllers.NewPreferencesController(deps.PreferencesService),
		Auth:         appControllers.NewAuthController(deps.AuthService, logger.Component("auth")),
		Profile:      appControllers.NewProfileController(deps.ProfileService),
		Health:       appControllers.NewHealthController(health),
		WebSocket:    websocket.NewHandler(deps.Hub, cfg.Server.CORSOrigins, logger.Component("websocket")).HandleConnection,
		UploadsDir:   uploadsDir,
	}

	return deps, nil
}

// resourceController exposes a plain catalog service over REST
func resourceController[T store.Entity[T]](st *store.Store[T], confirmations *store.Confirmations, lgr zerolog.Logger) *appControllers.ResourceController[T] {
	return appControllers.NewResourceController(appServices.NewCatalogService(st, confirmations, lgr))
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.Recovery(logger.Component("http")),
		appMiddleware.CORS(cfg.Server.CORSOrigins),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
