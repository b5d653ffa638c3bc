package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/mhoang/assessforms/config"
	"github.com/mhoang/assessforms/database"
	adminctrl "github.com/mhoang/assessforms/internal/controller/admin"
	publicctrl "github.com/mhoang/assessforms/internal/controller/public"
	"github.com/mhoang/assessforms/internal/logger"
	"github.com/mhoang/assessforms/internal/model"
	"github.com/mhoang/assessforms/internal/queue"
	"github.com/mhoang/assessforms/internal/repository"
	"github.com/mhoang/assessforms/internal/service"
)

// @title Assessment Forms API
// @version 1.0
// @description Back-office API for assessment form schemas, submissions and leads.
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewSubmissionQueue,
		),

		// Repositories layer
		fx.Provide(
			repository.NewFormRepository,
			repository.NewSubmissionRepository,
			repository.NewLeadRepository,
		),

		// Services layer
		fx.Provide(
			service.NewFormBuilderService,
			service.NewCommitService,
			service.NewReviewService,
			service.NewInsightService,
			service.NewRetryService,
			func(cfg *config.Config, forms repository.FormRepository, committer service.Committer, pending *queue.Queue) service.SubmissionService {
				return service.NewSubmissionService(forms, committer, pending, service.DurabilityPolicy(cfg.DurabilityPolicy))
			},
		),

		// API controllers layer
		fx.Provide(
			adminctrl.NewAdminFormController,
			adminctrl.NewAdminReviewController,
			publicctrl.NewPublicFormController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(ScheduleQueueDrain),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// NewSubmissionQueue opens the local durable queue and ties its lifetime to
// the application.
func NewSubmissionQueue(lc fx.Lifecycle, cfg *config.Config) (*queue.Queue, error) {
	var (
		q   *queue.Queue
		err error
	)
	if cfg.Queue.Dir == "" {
		log.Warn().Msg("QUEUE_DIR is not set, pending submissions will not survive restarts")
		q, err = queue.OpenInMemory(cfg.Queue.MaxEntries)
	} else {
		q, err = queue.Open(cfg.Queue.Dir, cfg.Queue.MaxEntries)
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return q.Close()
		},
	})
	return q, nil
}

// RegisterRoutesAndStartServer configures API routes and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	formCtrl *adminctrl.AdminFormController,
	reviewCtrl *adminctrl.AdminReviewController,
	publicCtrl *publicctrl.PublicFormController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.GET("/question-types", formCtrl.ListQuestionTypes)

		formsGroup := adminAPIGroup.Group("/forms")
		formsGroup.POST("", formCtrl.CreateForm)
		formsGroup.GET("", formCtrl.ListForms)
		formsGroup.GET("/:form_id", formCtrl.GetForm)
		formsGroup.PUT("/:form_id", formCtrl.UpdateFormMeta)
		formsGroup.DELETE("/:form_id", formCtrl.DeleteForm)
		formsGroup.POST("/:form_id/publish", formCtrl.PublishForm)
		formsGroup.POST("/:form_id/unpublish", formCtrl.UnpublishForm)

		formsGroup.POST("/:form_id/sections", formCtrl.AddSection)
		formsGroup.PUT("/:form_id/sections/reorder", formCtrl.ReorderSections)
		formsGroup.DELETE("/:form_id/sections/:section_id", formCtrl.RemoveSection)
		formsGroup.PUT("/:form_id/sections/:section_id/move", formCtrl.MoveSection)

		formsGroup.POST("/:form_id/sections/:section_id/questions", formCtrl.AddQuestion)
		formsGroup.PUT("/:form_id/sections/:section_id/questions/reorder", formCtrl.ReorderQuestions)
		formsGroup.DELETE("/:form_id/sections/:section_id/questions/:question_id", formCtrl.RemoveQuestion)
		formsGroup.PUT("/:form_id/sections/:section_id/questions/:question_id/move", formCtrl.MoveQuestion)
		formsGroup.PUT("/:form_id/questions/:question_id", formCtrl.UpdateQuestion)
		formsGroup.PATCH("/:form_id/questions/:question_id/config", formCtrl.UpdateQuestionConfig)

		adminAPIGroup.GET("/submissions", reviewCtrl.ListSubmissions)
		adminAPIGroup.GET("/submissions/:submission_id/insight", reviewCtrl.SummarizeSubmission)
		adminAPIGroup.GET("/leads", reviewCtrl.ListLeads)
		adminAPIGroup.PUT("/leads/:lead_id/status", reviewCtrl.UpdateLeadStatus)
		adminAPIGroup.POST("/queue/drain", reviewCtrl.DrainQueue)
	}

	publicAPIGroup := router.Group("/api/v1")
	{
		publicAPIGroup.GET("/forms/:form_id", publicCtrl.GetForm)
		publicAPIGroup.POST("/forms/:form_id/submissions", publicCtrl.Submit)
		publicAPIGroup.PUT("/forms/:form_id/draft", publicCtrl.SaveDraft)
		publicAPIGroup.GET("/forms/:form_id/draft", publicCtrl.LoadDraft)
		publicAPIGroup.DELETE("/forms/:form_id/draft", publicCtrl.ClearDraft)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Assessment forms API starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// ScheduleQueueDrain kicks one retry pass after an idle delay following
// startup. It is deliberately not a periodic job; later drains are
// operator-initiated through the admin API.
func ScheduleQueueDrain(lc fx.Lifecycle, cfg *config.Config, retry service.RetryService) {
	delay := time.Duration(cfg.Queue.RetryDelaySeconds) * time.Second
	var timer *time.Timer

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			timer = time.AfterFunc(delay, func() {
				summary, err := retry.DrainOnce(context.Background())
				if err != nil {
					log.Error().Err(err).Msg("Startup queue drain failed")
					return
				}
				log.Info().Int("successful", summary.Successful).Int("failed", summary.Failed).
					Int("remaining", summary.Remaining).Msg("Startup queue drain finished")
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if timer != nil {
				timer.Stop()
			}
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Form{},
		&model.Submission{},
		&model.Lead{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
