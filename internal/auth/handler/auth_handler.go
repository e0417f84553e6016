package handler

import (
	"errors"
	"time"

	"github.com/chopsqd/identity-service/internal/auth/domain"
	"github.com/chopsqd/identity-service/internal/auth/dto"
	"github.com/chopsqd/identity-service/internal/auth/provider"
	"github.com/chopsqd/identity-service/internal/auth/service"
	autherror "github.com/chopsqd/identity-service/internal/errors"
	"github.com/chopsqd/identity-service/pkg/constant"
	"github.com/gofiber/fiber/v2"
)

// ProviderConfig binds a route name ("google", "yandex") to the stored
// provider tag and the verifier that turns a provider token into an email.
type ProviderConfig struct {
	Tag      string
	Verifier provider.Verifier
}

type AuthHandler struct {
	authService   *service.AuthService
	providers     map[string]ProviderConfig
	secureCookies bool
}

func NewAuthHandler(authService *service.AuthService, providers map[string]ProviderConfig, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		providers:     providers,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, autherror.ErrEmailAlreadyInUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, autherror.ErrPasswordsDoNotMatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "registration failed"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	input.Device = string(c.Request().Header.UserAgent())

	pair, err := h.authService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidCredentials) || errors.Is(err, autherror.ErrUserBlocked) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	return h.respondWithTokens(c, pair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(constant.RefreshTokenCookie)
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrMissingRefreshCookie.Error()})
	}

	input := dto.RefreshInput{
		RefreshToken: refreshToken,
		Device:       string(c.Request().Header.UserAgent()),
	}

	pair, err := h.authService.Refresh(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, autherror.ErrInvalidRefreshToken),
			errors.Is(err, autherror.ErrRefreshTokenExpired),
			errors.Is(err, autherror.ErrUserNotFound),
			errors.Is(err, autherror.ErrUserBlocked):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "refresh failed"})
		}
	}

	return h.respondWithTokens(c, pair)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(constant.RefreshTokenCookie)
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrMissingRefreshCookie.Error()})
	}

	if err := h.authService.Logout(c.Context(), refreshToken); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "logout failed"})
	}

	h.clearRefreshCookie(c)

	return c.SendStatus(fiber.StatusOK)
}

// ProviderCallback finishes a provider sign-in: the provider token from the
// redirect is resolved to an email, which the orchestrator upserts.
func (h *AuthHandler) ProviderCallback(c *fiber.Ctx) error {
	cfg, ok := h.providers[c.Params("provider")]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": autherror.ErrUnknownProvider.Error()})
	}

	providerToken := c.Query("token")
	if providerToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing token"})
	}

	email, err := cfg.Verifier.Verify(c.Context(), providerToken)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": autherror.ErrProviderAuthFailed.Error()})
	}

	device := string(c.Request().Header.UserAgent())

	pair, err := h.authService.ProviderAuth(c.Context(), email, device, cfg.Tag)
	if err != nil {
		if errors.Is(err, autherror.ErrUserBlocked) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return h.respondWithTokens(c, pair)
}

// respondWithTokens places the refresh token as an httpOnly cookie whose
// expiry matches the stored record, and returns the pair in the body.
func (h *AuthHandler) respondWithTokens(c *fiber.Ctx, pair *domain.TokenPair) error {
	c.Cookie(&fiber.Cookie{
		Name:     constant.RefreshTokenCookie,
		Value:    pair.RefreshToken.Token,
		Path:     "/",
		Expires:  pair.RefreshToken.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusCreated).JSON(dto.TokenPairOutput{
		AccessToken: pair.AccessToken,
		RefreshToken: dto.RefreshTokenOutput{
			Token:  pair.RefreshToken.Token,
			UserID: pair.RefreshToken.UserID,
			Device: pair.RefreshToken.Device,
			Exp:    pair.RefreshToken.ExpiresAt,
		},
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     constant.RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now(),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
