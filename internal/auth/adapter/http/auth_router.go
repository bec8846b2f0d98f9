package http

import (
	"errors"
	"time"

	"zest/internal/auth/usecase"
	apperrors "zest/internal/shared/errors"
	"zest/internal/shared/logger"
	"zest/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication
type AuthHTTPHandler struct {
	usecase        usecase.AuthUsecaseInterface
	log            logger.Logger
	cookieName     string
	cookiePath     string
	cookieDomain   string
	cookieMaxAge   int
	cookieSecure   bool
	cookieHTTPOnly bool
	cookieSameSite string
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(
	uc usecase.AuthUsecaseInterface,
	log logger.Logger,
	cookieName, cookiePath, cookieDomain string,
	cookieMaxAge int,
	cookieSecure, cookieHTTPOnly bool,
	cookieSameSite string,
) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase:        uc,
		log:            log.WithComponent("auth.http"),
		cookieName:     cookieName,
		cookiePath:     cookiePath,
		cookieDomain:   cookieDomain,
		cookieMaxAge:   cookieMaxAge,
		cookieSecure:   cookieSecure,
		cookieHTTPOnly: cookieHTTPOnly,
		cookieSameSite: cookieSameSite,
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes with middleware
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	// Public routes (no authentication required)
	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Get("/logout", h.Logout)
	router.Post("/forgot", h.ForgotPassword)

	// Protected routes (authentication required)
	protected := router.Group("/", middleware.Protect())
	protected.Get("/me", h.GetCurrentUser)
}

// Register handles user registration
func (h *AuthHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.usecase.Register(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, "register", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created",
		"user":    user,
	})
}

// Login handles user login. On success the session token travels back only
// inside the cookie; the body never carries it.
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, token, err := h.usecase.Login(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, "login", err)
	}

	h.setCookie(c, token)

	return c.JSON(fiber.Map{
		"message": "Logged in",
		"user":    user,
	})
}

// Logout revokes the session named by the presented cookie and clears the
// cookie. A request without a cookie still succeeds.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(h.cookieName)

	if err := h.usecase.Logout(c.UserContext(), token); err != nil {
		return h.respondError(c, "logout", err)
	}

	h.clearCookie(c)

	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// ForgotPassword rotates the account password and mails the replacement.
// The response shape does not reveal whether the email was known.
func (h *AuthHTTPHandler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.usecase.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return h.respondError(c, "forgot_password", err)
	}

	return c.JSON(fiber.Map{
		"message": "If the account exists, a new password has been sent",
	})
}

// GetCurrentUser returns the authenticated user id resolved by the session
// validator.
func (h *AuthHTTPHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	return c.JSON(fiber.Map{
		"user_id": userID,
	})
}

// respondError translates usecase errors into responses. Infrastructure
// detail is logged here and never reaches the body.
func (h *AuthHTTPHandler) respondError(c *fiber.Ctx, operation string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.HTTPCode).JSON(fiber.Map{
			"error": appErr.Message,
		})
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid username or password",
		})
	case errors.Is(err, apperrors.ErrDuplicateUser):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username or email already registered",
		})
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	case errors.Is(err, apperrors.ErrDeliveryFailed):
		h.log.WithFields(map[string]interface{}{"operation": operation}).
			Errorf("delivery failure: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not deliver notification",
		})
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		h.log.WithFields(map[string]interface{}{"operation": operation}).
			Errorf("store failure: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Service temporarily unavailable",
		})
	default:
		h.log.WithFields(map[string]interface{}{"operation": operation}).
			Errorf("unexpected failure: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

// Helper methods

func (h *AuthHTTPHandler) setCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   h.cookieMaxAge,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
		Expires:  time.Now().Add(time.Duration(h.cookieMaxAge) * time.Second),
	})
}

func (h *AuthHTTPHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
