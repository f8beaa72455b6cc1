package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"inc/client"
	"inc/config"
	"inc/controller"
	"inc/cron"
	"inc/docs"
	"inc/service"

	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urfave/cli/v2"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"gorm.io/gorm"
)

type server struct {
	cfg           *config.Config
	db            *gorm.DB
	events        *config.Events
	queue         client.NotificationQueue
	notifications *service.NotificationService
}

func (s *server) loadConfig() {
	s.cfg = config.Env()
	config.SetupLogging(s.cfg)
}

func (s *server) loadDatabase() error {
	db, err := config.InitDB(s.cfg)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *server) loadEvents() error {
	events, err := config.LoadEvents(s.cfg.EventsFile)
	if err != nil {
		return err
	}
	s.events = events
	return nil
}

func (s *server) loadNotifications() error {
	queue, err := client.NewNotificationQueue(s.cfg)
	if err != nil {
		return err
	}
	s.queue = queue
	var announcer client.Announcer
	if s.cfg.DiscordBotToken != "" && s.cfg.DiscordChannelID != "" {
		discord, err := client.NewDiscordAnnouncer(s.cfg.DiscordBotToken, s.cfg.DiscordChannelID)
		if err != nil {
			return err
		}
		announcer = discord
	}
	s.notifications = service.NewNotificationService(s.db, queue, client.NewSMTPMailer(s.cfg), announcer)
	return nil
}

func (s *server) load() error {
	s.loadConfig()
	if err := s.loadDatabase(); err != nil {
		return err
	}
	if err := s.loadEvents(); err != nil {
		return err
	}
	return s.loadNotifications()
}

func (s *server) close() {
	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			log.WithError(err).Warn("could not close notification queue")
		}
	}
	if s.db != nil {
		if err := config.CloseDB(s.db); err != nil {
			log.WithError(err).Warn("could not close database")
		}
	}
}

func (s *server) fileStore() (client.FileStore, error) {
	if s.cfg.S3Endpoint == "" {
		log.Warn("S3_ENDPOINT is not set, id uploads are disabled")
		return nil, nil
	}
	return client.NewS3FileStore(s.cfg)
}

func (s *server) counter(ctx context.Context) (client.Counter, error) {
	redisClient, err := config.NewRedisClient(ctx)
	if err != nil {
		return nil, err
	}
	if redisClient == nil {
		return client.NewMemoryCounter(time.Minute), nil
	}
	return client.NewRedisCounter(redisClient), nil
}

func (s *server) backupService() (*service.BackupService, error) {
	if s.cfg.BackupDSN == "" {
		return nil, nil
	}
	backupDB, err := config.OpenDB(s.cfg.BackupDSN)
	if err != nil {
		return nil, err
	}
	return service.NewBackupService(s.db, backupDB), nil
}

func (s *server) exportService(ctx context.Context) (*service.ExportService, error) {
	if s.cfg.SheetsCredentialsFile == "" || s.cfg.SheetsSpreadsheetID == "" {
		return nil, nil
	}
	sheets, err := client.NewSheetsClient(ctx, s.cfg.SheetsCredentialsFile, s.cfg.SheetsSpreadsheetID)
	if err != nil {
		return nil, err
	}
	return service.NewExportService(s.db, s.events, sheets), nil
}

func startServer(cctx *cli.Context) error {
	t := time.Now()
	ctx, stop := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := &server{}
	defer s.close()
	if err := s.load(); err != nil {
		return err
	}
	if s.cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set to serve the api")
	}
	store, err := s.fileStore()
	if err != nil {
		return err
	}
	counter, err := s.counter(ctx)
	if err != nil {
		return err
	}
	backup, err := s.backupService()
	if err != nil {
		return err
	}
	export, err := s.exportService(ctx)
	if err != nil {
		return err
	}

	if !cctx.IsSet("worker") || cctx.Bool("worker") {
		worker := cron.NewNotificationWorker(s.queue, s.notifications, 4)
		go worker.Run(ctx)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}
	addLogger(r)
	addMetrics(r)
	addDocs(r)
	setCors(r, s.cfg.FrontendOrigins)
	controller.SetRoutes(r, &controller.Dependencies{
		DB:            s.db,
		Events:        s.events,
		Notifications: s.notifications,
		Files:         service.NewFileService(s.db, store),
		Counter:       counter,
		Cache:         persistence.NewInMemoryStore(60 * time.Second),
		Backup:        backup,
		Export:        export,
	})

	httpServer := &http.Server{Addr: s.cfg.ListenAddress, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("server shutdown")
		}
	}()
	log.WithFields(log.Fields{"address": s.cfg.ListenAddress, "startup": time.Since(t)}).Info("server started")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func addLogger(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/metrics", "/health"},
		Skip: func(c *gin.Context) bool {
			return c.Request.URL.Query().Get("ticket") != ""
		},
	}))
}

func addMetrics(r *gin.Engine) {
	p := ginprometheus.NewPrometheus("gin")
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		if path := c.FullPath(); path != "" {
			return path
		}
		return "unmatched"
	}
	p.MetricsPath = "/api/metrics"
	p.Use(r)
}

func addDocs(r *gin.Engine) {
	docs.SwaggerInfo.BasePath = "/"
	r.GET("/api/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

func setCors(r *gin.Engine, origins []string) {
	corsConfigGetOptions := cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	corsConfigOtherMethods := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	getOptions := cors.New(corsConfigGetOptions)
	otherMethods := cors.New(corsConfigOtherMethods)

	r.Use(func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" {
			requestedMethod := c.GetHeader("Access-Control-Request-Method")
			if requestedMethod == "GET" || requestedMethod == "OPTIONS" {
				getOptions(c)
			} else {
				otherMethods(c)
			}
			c.AbortWithStatus(204)
			return
		}

		if c.Request.Method == "GET" {
			getOptions(c)
		} else {
			otherMethods(c)
		}
	})
}
