package auth

import (
	"database/sql"
	"fmt"

	authhttp "zest/internal/auth/adapter/http"
	"zest/internal/auth/adapter/notification"
	"zest/internal/auth/adapter/persistence/postgres"
	"zest/internal/auth/adapter/security"
	"zest/internal/auth/config"
	"zest/internal/auth/domain/repository"
	"zest/internal/auth/usecase"
	"zest/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthModule represents the complete authentication module
type AuthModule struct {
	repository repository.AuthRepository
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	config     *config.Config
}

// NewAuthModule creates a new authentication module instance
func NewAuthModule(db *sql.DB, cfg *config.Config, log logger.Logger) (*AuthModule, error) {
	authRepo := postgres.NewPostgresAuthRepository(db)

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	tokens := security.NewRandTokenSource()

	mailer, err := notification.NewSMTPMailer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	authUsecase := usecase.NewAuthUsecase(authRepo, hasher, tokens, mailer, cfg, log)

	handler := authhttp.NewAuthHTTPHandler(
		authUsecase,
		log,
		cfg.CookieName,
		cfg.CookiePath,
		cfg.CookieDomain,
		int(cfg.SessionTTL.Seconds()),
		cfg.CookieSecure,
		cfg.CookieHTTPOnly,
		cfg.CookieSameSite,
	)

	return &AuthModule{
		repository: authRepo,
		usecase:    authUsecase,
		handler:    handler,
		config:     cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	middleware := am.GetMiddleware()
	group := router.Group("/auth", middleware.RateLimiter())
	am.handler.SetupAuthRoutesWithMiddleware(group, middleware)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return authhttp.NewAuthMiddleware(am.usecase, am.config.CookieName)
}
