package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/stockpulse/internal/api"
	"github.com/charlesng35/stockpulse/internal/app"
	iauth "github.com/charlesng35/stockpulse/internal/auth"
	"github.com/charlesng35/stockpulse/internal/database"
	"github.com/charlesng35/stockpulse/internal/identity"
	"github.com/charlesng35/stockpulse/internal/middleware"
	"github.com/charlesng35/stockpulse/internal/models"
	"github.com/charlesng35/stockpulse/internal/notifications"
	"github.com/charlesng35/stockpulse/internal/repository"
	"github.com/charlesng35/stockpulse/internal/services"
	"github.com/charlesng35/stockpulse/pkg/logger"
	"github.com/charlesng35/stockpulse/pkg/mail"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// bootstrapRuntime initialises the database, identity lookups, delivery
// channels, services and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(log)
		}
	}()

	// enable gin debug mode
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	resolver, err := buildResolver(ctx, cfg, stack.DB)
	if err != nil {
		return nil, err
	}
	if _, ok := resolver.(*identity.DBResolver); ok {
		warnIfUserDirectoryEmpty(ctx, stack.DB, log)
	}

	smtpSettings := cfg.Email.SMTPSettings()
	if !smtpSettings.Configured() {
		log.Warn("smtp credentials missing; email delivery disabled")
	}
	mailer := mail.NewSMTPMailer(smtpSettings)

	notificationSvc, err := services.NewNotificationService(
		repository.NewNotificationRepository(stack.DB),
		repository.NewPreferenceRepository(stack.DB),
		resolver,
		services.WithEmailChannel(notifications.NewEmailChannel(mailer, resolver)),
		services.WithPushChannel(notifications.NewPushChannel()),
		services.WithDefaultPageSize(cfg.Notifications.DefaultPageSize),
	)
	if err != nil {
		return nil, fmt.Errorf("initialise notification service: %w", err)
	}

	preferenceSvc, err := services.NewNotificationPreferenceService(repository.NewPreferenceRepository(stack.DB))
	if err != nil {
		return nil, fmt.Errorf("initialise preference service: %w", err)
	}

	inventorySvc, err := services.NewInventoryService(repository.NewInventoryRepository(stack.DB), notificationSvc)
	if err != nil {
		return nil, fmt.Errorf("initialise inventory service: %w", err)
	}

	stack.Router, err = api.NewRouter(api.Dependencies{
		DB:              stack.DB,
		JWT:             jwtSvc,
		Notifications:   notificationSvc,
		Preferences:     preferenceSvc,
		Inventory:       inventorySvc,
		WriteLimiter:    middleware.NewRateLimiter(cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window),
		EmailConfigured: smtpSettings.Configured(),
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown releases resources held by the stack.
func (s *runtimeStack) Shutdown(log *zap.Logger) {
	if s == nil || s.DB == nil {
		return
	}
	if err := database.Close(s.DB); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
	s.DB = nil
}

func buildResolver(ctx context.Context, cfg *app.Config, db *gorm.DB) (identity.Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Identity.Provider)) {
	case app.IdentityProviderFirebase:
		resolver, err := identity.NewFirebaseResolver(ctx, identity.FirebaseConfig{
			ProjectID:       cfg.Identity.Firebase.ProjectID,
			CredentialsFile: cfg.Identity.Firebase.CredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("initialise firebase identity: %w", err)
		}
		return resolver, nil
	default:
		return identity.NewDBResolver(db), nil
	}
}

// warnIfUserDirectoryEmpty flags a database identity provider whose users table
// has not been populated. The table is written by the account service that
// shares this database; until it is, every create is rejected as an unknown user.
func warnIfUserDirectoryEmpty(ctx context.Context, db *gorm.DB, log *zap.Logger) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		log.Warn("count users", zap.Error(err))
		return
	}
	if count == 0 {
		log.Warn("users table is empty; notifications will be rejected until the account service syncs users",
			zap.String("identity_provider", app.IdentityProviderDatabase))
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.DatabaseSettings()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))

	return db, nil
}
