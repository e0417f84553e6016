package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chopsqd/identity-service/internal/auth/domain"
	"github.com/chopsqd/identity-service/internal/auth/service"
	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegisterRoutes verifies that all routes are mounted.
func TestRegisterRoutes(t *testing.T) {
	f := newFixture(t, nil)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/auth/register"},
		{http.MethodPost, "/api/v1/auth/login"},
		{http.MethodGet, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/auth/refresh-tokens"},
		{http.MethodGet, "/api/v1/auth/google/callback"},
		{http.MethodGet, "/api/v1/user/some-id"},
		{http.MethodDelete, "/api/v1/user/some-id"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := f.app.Test(req)
			require.NoError(t, err)

			// We only care that the route exists. A 404 means it doesn't.
			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

// TestRequireAuth covers the access-token guard on the user endpoints.
func TestRequireAuth(t *testing.T) {
	claims := &service.JWTCustomClaims{UserID: "user-123", Email: "a@x.com", Roles: []string{"USER"}}

	t.Run("missing header", func(t *testing.T) {
		f := newFixture(t, nil)

		resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/user/user-123", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newFixture(t, nil)

		f.mockIssuer.EXPECT().VerifyAccessToken("bad-token").Return(nil, errors.New("signature invalid"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/user/user-123", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer bad-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		f := newFixture(t, nil)
		user := &domain.User{ID: "user-123", Email: "a@x.com", Roles: []string{"USER"}}

		f.mockIssuer.EXPECT().VerifyAccessToken("good-token").Return(claims, nil)
		f.mockCache.EXPECT().Get(gomock.Any(), "user-123").Return(user, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/user/user-123", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestUserEndpoints(t *testing.T) {
	claims := &service.JWTCustomClaims{UserID: "user-123", Email: "a@x.com", Roles: []string{"USER"}}
	user := &domain.User{ID: "user-123", Email: "a@x.com", Roles: []string{"USER"}}

	t.Run("get unknown user is a 404", func(t *testing.T) {
		f := newFixture(t, nil)

		f.mockIssuer.EXPECT().VerifyAccessToken("good-token").Return(claims, nil)
		f.mockCache.EXPECT().Get(gomock.Any(), "ghost").Return(nil, nil)
		f.mockRepo.EXPECT().GetByIDOrEmail(gomock.Any(), "ghost").Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/user/ghost", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("self delete succeeds", func(t *testing.T) {
		f := newFixture(t, nil)

		f.mockIssuer.EXPECT().VerifyAccessToken("good-token").Return(claims, nil)
		f.mockRepo.EXPECT().Delete(gomock.Any(), "user-123").Return(user, nil)
		f.mockCache.EXPECT().Invalidate(gomock.Any(), user.ID, user.Email).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/user/user-123", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("deleting another user without admin role is forbidden", func(t *testing.T) {
		f := newFixture(t, nil)

		f.mockIssuer.EXPECT().VerifyAccessToken("good-token").Return(claims, nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/user/someone-else", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin deletes another user", func(t *testing.T) {
		f := newFixture(t, nil)
		admin := &service.JWTCustomClaims{UserID: "admin-1", Email: "root@x.com", Roles: []string{"ADMIN"}}

		f.mockIssuer.EXPECT().VerifyAccessToken("admin-token").Return(admin, nil)
		f.mockRepo.EXPECT().Delete(gomock.Any(), "user-123").Return(user, nil)
		f.mockCache.EXPECT().Invalidate(gomock.Any(), user.ID, user.Email).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/user/user-123", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer admin-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("delete of a missing user is a 404", func(t *testing.T) {
		f := newFixture(t, nil)

		f.mockIssuer.EXPECT().VerifyAccessToken("good-token").Return(claims, nil)
		f.mockRepo.EXPECT().Delete(gomock.Any(), "user-123").Return(nil, nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/user/user-123", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
