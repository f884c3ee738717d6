package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ativflow_backend/internal/config"
	"ativflow_backend/internal/controller"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/service"
	"ativflow_backend/pkg/database"
	"ativflow_backend/pkg/logger"
	"ativflow_backend/pkg/monitoring"
	"ativflow_backend/pkg/security"
	"ativflow_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	activity     *repository.ActivityRepository
	question     *repository.QuestionRepository
	delivery     *repository.DeliveryRepository
	group        *repository.GroupRepository
	followUp     *repository.FollowUpRepository
	notification *repository.NotificationRepository
}

type services struct {
	user         *service.UserService
	activity     *service.ActivityService
	question     *service.QuestionService
	delivery     *service.DeliveryService
	group        *service.GroupService
	followUp     *service.FollowUpService
	notification *service.NotificationService
	report       *service.ReportService
}

type controllers struct {
	user         *controller.UserController
	activity     *controller.ActivityController
	question     *controller.QuestionController
	delivery     *controller.DeliveryController
	group        *controller.GroupController
	followUp     *controller.FollowUpController
	notification *controller.NotificationController
	report       *controller.ReportController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig swaps in a reloaded configuration and notifies subscribers.
// Listen address and database settings still need a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		activity:     repository.NewActivityRepository(db),
		question:     repository.NewQuestionRepository(db),
		delivery:     repository.NewDeliveryRepository(db),
		group:        repository.NewGroupRepository(db),
		followUp:     repository.NewFollowUpRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, rdb *redis.Client) *services {
	s := &services{}

	s.notification = service.NewNotificationService(repos.notification, repos.user, rdb)
	s.user = service.NewUserService(repos.user)
	s.activity = service.NewActivityService(repos.activity, s.notification)
	s.question = service.NewQuestionService(repos.question, repos.activity, rdb)
	s.group = service.NewGroupService(repos.group, repos.activity, repos.user)
	s.delivery = service.NewDeliveryService(repos.delivery, repos.activity, repos.group, s.notification)
	s.followUp = service.NewFollowUpService(repos.followUp)
	s.report = service.NewReportService(repos.user, repos.activity, repos.delivery, repos.question)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		user:         controller.NewUserController(s.user),
		activity:     controller.NewActivityController(s.activity),
		question:     controller.NewQuestionController(s.question),
		delivery:     controller.NewDeliveryController(s.delivery),
		group:        controller.NewGroupController(s.group),
		followUp:     controller.NewFollowUpController(s.followUp),
		notification: controller.NewNotificationController(s.notification),
		report:       controller.NewReportController(s.report),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the periodic sweeps: deadline reminders for
// activities closing within 48 hours and cleanup of old notifications.
func (a *App) startBackgroundTasks(s *services, repos *repositories) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			if err := s.notification.DeadlineSweep(repos.activity, 48*time.Hour); err != nil {
				logger.Log.Error("deadline sweep error", zap.Error(err))
			}
			if _, err := s.notification.CleanupOld(30 * 24 * time.Hour); err != nil {
				logger.Log.Error("notification cleanup error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
			log.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Log.Info("Database migration completed")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("ativflow-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if !cfg.MigrateOnly {
		app.startBackgroundTasks(services, repos)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
