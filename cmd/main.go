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
	"github.com/zitlabs/campus/config"
	"github.com/zitlabs/campus/database"
	_ "github.com/zitlabs/campus/docs" // Swagger docs - auto-generated
	adminctrl "github.com/zitlabs/campus/internal/controller/admin"
	authctrl "github.com/zitlabs/campus/internal/controller/auth"
	instructorctrl "github.com/zitlabs/campus/internal/controller/instructor"
	studentctrl "github.com/zitlabs/campus/internal/controller/student"
	"github.com/zitlabs/campus/internal/logger"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/payment"
	"github.com/zitlabs/campus/internal/repository"
	"github.com/zitlabs/campus/internal/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Campus Course Marketplace API
// @version 1.0
// @description Online course marketplace: instructors publish courses and quizzes, students enroll and track progress, admins moderate and export analytics.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories
		fx.Provide(
			repository.NewUserRepository,
			repository.NewCourseRepository,
			repository.NewModuleRepository,
			repository.NewEnrollmentRepository,
			repository.NewModuleProgressRepository,
			repository.NewQuizRepository,
			repository.NewChoiceRepository,
			repository.NewAnswerRepository,
			repository.NewAnnouncementRepository,
			repository.NewVideoRepository,
		),

		// Payment gateway
		fx.Provide(
			payment.NewPaystackClient,
			func(client *payment.PaystackClient) payment.Verifier { return client },
		),

		// Services
		fx.Provide(
			service.NewAuthService,
			service.NewCourseService,
			service.NewEnrollmentService,
			service.NewProgressService,
			service.NewQuizService,
			service.NewResultsService,
			service.NewAdminService,
		),

		// Controllers
		fx.Provide(
			authctrl.NewAuthController,
			studentctrl.NewStudentController,
			instructorctrl.NewInstructorController,
			adminctrl.NewAdminController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
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
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	userRepo repository.UserRepository,
	authCtrl *authctrl.AuthController,
	studentCtrl *studentctrl.StudentController,
	instructorCtrl *instructorctrl.InstructorController,
	adminCtrl *adminctrl.AdminController,
) {
	apiV1 := router.Group("/api/v1")
	authCtrl.RegisterRoutes(apiV1)
	studentCtrl.RegisterRoutes(apiV1, cfg, userRepo)
	instructorCtrl.RegisterRoutes(apiV1, cfg, userRepo)
	adminCtrl.RegisterRoutes(apiV1, cfg, userRepo)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Campus API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
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

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Module{},
		&model.Announcement{},
		&model.Video{},
		&model.Enrollment{},
		&model.ModuleProgress{},
		&model.Quiz{},
		&model.Question{},
		&model.Choice{},
		&model.StudentAnswer{},
		&model.Grade{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
