package main

import (
	"context"

	"github.com/chopsqd/identity-service/config"
	"github.com/chopsqd/identity-service/db"
	"github.com/chopsqd/identity-service/internal/auth/cache"
	"github.com/chopsqd/identity-service/internal/auth/handler"
	"github.com/chopsqd/identity-service/internal/auth/provider"
	repo "github.com/chopsqd/identity-service/internal/auth/repository/postgres"
	"github.com/chopsqd/identity-service/internal/auth/service"
	"github.com/chopsqd/identity-service/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	store := repo.NewPostgresRepository(pool)
	userCache := cache.NewRedisUserCache(redisClient)

	tokenService := service.NewTokenService(cfg.SigningSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, store)
	userService := service.NewUserService(store, userCache, cfg.AccessTokenTTL, logger)
	authService := service.NewAuthService(userService, store, tokenService, logger)

	providers := map[string]handler.ProviderConfig{
		"google": {
			Tag:      constant.ProviderGoogle,
			Verifier: provider.NewTokeninfoVerifier(cfg.GoogleTokeninfoURL, "access_token", "email"),
		},
		"yandex": {
			Tag:      constant.ProviderYandex,
			Verifier: provider.NewTokeninfoVerifier(cfg.YandexTokeninfoURL, "oauth_token", "default_email"),
		},
	}

	authHandler := handler.NewAuthHandler(authService, providers, cfg.Env == "production")
	userHandler := handler.NewUserHandler(userService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, userHandler, handler.RequireAuth(tokenService))

	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
