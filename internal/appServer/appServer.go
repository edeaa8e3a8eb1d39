package appServer

import (
	"context"
	"crypto/tls"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/config"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/cma"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/database"
	repository "github.com/ds124wfegd/WB_L3/imageeditor/internal/database/postgres"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/pkg/kafka"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/pkg/processor"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/pkg/rabbitMQ"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/pkg/storage"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/service"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/transport"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/worker"
	"github.com/ds124wfegd/WB_L3/imageeditor/pkg/postgres"
	"github.com/ds124wfegd/WB_L3/imageeditor/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type notifier interface {
	service.MessagePublisher
	Close() error
}

// newNotifier picks the broker field notifications are published to.
func newNotifier(cfg *config.NotificationsConfig) notifier {
	if cfg.Broker == "rabbitmq" {
		queue, err := rabbitMQ.NewRabbitMQ(rabbitMQ.RabbitMQConfig{URL: cfg.RabbitURL, QueueName: cfg.RabbitQueue})
		if err == nil {
			logrus.Info("RabbitMQ notifier initialized")
			return queue
		}
		logrus.WithError(err).Warn("RabbitMQ unavailable, falling back to kafka")
	}
	return kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func newParametersRepository(ctx context.Context, cfg *config.Config, redisClient *goredis.Client) (database.ParametersRepository, error) {
	if cfg.Storage.Parameters == "file" {
		logrus.WithField("path", cfg.Storage.BasePath).Info("Installation parameters stored on disk")
		return database.NewFileParametersRepository(storage.NewFileStorage(cfg.Storage.BasePath)), nil
	}
	return database.NewRedisParametersRepository(ctx, redisClient)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Server.Env == "development" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	paramsRepo, err := newParametersRepository(ctx, cfg, redisClient)
	if err != nil {
		logrus.Fatalf("Failed to initialize parameters storage: %v", err)
	}
	fieldRepo := database.NewRedisFieldValueRepository(redisClient)

	// Save journal is optional
	journal := database.NewNopJournal()
	if cfg.Database.Host != "" {
		var db *sql.DB
		db, err = postgres.NewPostgresDB(&cfg.Database)
		if err != nil {
			logrus.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := postgres.RunMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		journal = repository.NewJournalRepository(db)
		logrus.Info("Save journal initialized")
	} else {
		logrus.Warn("Database host not provided, save journal disabled")
	}

	publisher := newNotifier(&cfg.Notifications)
	defer publisher.Close()

	if cfg.CMA.AccessToken == "" || cfg.CMA.SpaceID == "" {
		logrus.Warn("CMA credentials not provided, content management calls will fail")
	}
	cmaClient := cma.NewClient(cma.Config{
		BaseURL:            cfg.CMA.BaseURL,
		UploadURL:          cfg.CMA.UploadURL,
		AccessToken:        cfg.CMA.AccessToken,
		SpaceID:            cfg.CMA.SpaceID,
		EnvironmentID:      cfg.CMA.EnvironmentID,
		Timeout:            cfg.CMA.Timeout,
		RateLimit:          cfg.CMA.RateLimit,
		ProcessingChecks:   cfg.CMA.ProcessingChecks,
		ProcessingInterval: cfg.CMA.ProcessingInterval,
	})
	locales := service.NewCachedLocales(cmaClient, cfg.App.LocalesTTL)
	imageProcessor := processor.NewImageProcessor()

	// Initialize services
	configService := service.NewConfigService(paramsRepo)
	dialogService := service.NewDialogService(cmaClient, cmaClient, locales, configService, journal, imageProcessor)
	fieldService := service.NewFieldService(fieldRepo, dialogService, cmaClient, cmaClient, imageProcessor,
		publisher, cfg.App.PreviewWidth, cfg.App.PreviewHeight)

	cleanupWorker := worker.NewDialogCleanupWorker(dialogService, cfg.App.CleanupInterval, cfg.App.DialogRetention)
	go cleanupWorker.Start(ctx)

	// Initialize handlers
	configHandler := transport.NewConfigHandler(configService)
	fieldHandler := transport.NewFieldHandler(fieldService)
	dialogHandler := transport.NewDialogHandler(dialogService, journal)

	if cfg.Server.Mode == "release" || cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(configHandler, fieldHandler, dialogHandler, cfg.Server.RequestTimeout)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
	fieldService.UnmountAll()
}
