package service

import (
	"context"
	"time"

	"github.com/chopsqd/identity-service/internal/auth/domain"
	autherror "github.com/chopsqd/identity-service/internal/errors"
	"github.com/chopsqd/identity-service/pkg/constant"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService owns user records and keeps the lookup cache coherent with
// them. The repository is authoritative; the cache is best-effort and every
// cache failure degrades to a repository read.
type UserService struct {
	repo     domain.UserRepository
	cache    domain.UserCache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewUserService(repo domain.UserRepository, cache domain.UserCache, cacheTTL time.Duration, log *zap.Logger) *UserService {
	return &UserService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// FindOne resolves a user by id or email through the cache. skipCache forces
// a repository read (and drops the entry first) for callers that know the
// record may have just changed.
func (s *UserService) FindOne(ctx context.Context, idOrEmail string, skipCache bool) (*domain.User, error) {
	if skipCache {
		if err := s.cache.Invalidate(ctx, idOrEmail); err != nil {
			s.log.Warn("failed to drop cache entry", zap.String("key", idOrEmail), zap.Error(err))
		}
	} else {
		user, err := s.cache.Get(ctx, idOrEmail)
		if err != nil {
			s.log.Warn("cache read failed, falling through", zap.String("key", idOrEmail), zap.Error(err))
		} else if user != nil {
			return user, nil
		}
	}

	user, err := s.repo.GetByIDOrEmail(ctx, idOrEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	s.cacheUser(ctx, user)

	return user, nil
}

// Create persists a new password-authenticated user with the default role.
func (s *UserService) Create(ctx context.Context, email, password string) (*domain.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), constant.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Roles:        []string{constant.RoleUser},
		Provider:     constant.ProviderNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.cacheUser(ctx, user)

	return user, nil
}

// UpsertProvider creates the user on first provider sign-in and records the
// latest provider tag on subsequent ones.
func (s *UserService) UpsertProvider(ctx context.Context, email, provider string) (*domain.User, error) {
	user, err := s.repo.UpsertProviderByEmail(ctx, email, provider)
	if err != nil {
		return nil, err
	}

	s.cacheUser(ctx, user)

	return user, nil
}

// Delete removes a user. Only the user themselves or an admin may do so.
func (s *UserService) Delete(ctx context.Context, id string, current *JWTCustomClaims) (*domain.User, error) {
	if current.UserID != id && !hasRole(current.Roles, constant.RoleAdmin) {
		return nil, autherror.ErrForbidden
	}

	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	if err := s.cache.Invalidate(ctx, user.ID, user.Email); err != nil {
		s.log.Warn("failed to invalidate cache after delete", zap.String("user_id", user.ID), zap.Error(err))
	}

	return user, nil
}

// cacheUser refreshes both cache keys after the repository write committed.
// Failures are logged and ignored: the next read repopulates the entry.
func (s *UserService) cacheUser(ctx context.Context, user *domain.User) {
	if err := s.cache.Set(ctx, user, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache user", zap.String("user_id", user.ID), zap.Error(err))
	}
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
