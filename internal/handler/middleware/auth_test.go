//go:build unit

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"slotboard/internal/domain/user"
	"slotboard/internal/handler/middleware"
	"slotboard/internal/pkg/jwt"
	"slotboard/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T, svc *jwt.Service, minRole user.Role) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := middleware.NewAuthMiddleware(svc)
	router := gin.New()
	group := router.Group("/protected")
	group.Use(auth.RequireAuth())
	if minRole != "" {
		group.Use(auth.RequireRoleAtLeast(minRole))
	}
	group.GET("", func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String(), "role": string(role)})
	})
	return router
}

func TestRequireAuth(t *testing.T) {
	svc := jwt.NewService("test-secret", time.Hour)

	t.Run("valid bearer token passes and sets the principal", func(t *testing.T) {
		router := newAuthRouter(t, svc, "")
		userID := uuid.New()
		token, err := svc.GenerateToken(userID, user.RoleMember)
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/protected", nil, token)

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, userID.String(), body["user_id"])
		assert.Equal(t, "member", body["role"])
	})

	t.Run("token accepted via access_token query parameter", func(t *testing.T) {
		router := newAuthRouter(t, svc, "")
		token, err := svc.GenerateToken(uuid.New(), user.RoleViewer)
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/protected?access_token="+token, nil, "")
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		router := newAuthRouter(t, svc, "")
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/protected", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		router := newAuthRouter(t, svc, "")
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/protected", nil, "not-a-jwt")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		shortLived := jwt.NewService("test-secret", 1*time.Millisecond)
		token, err := shortLived.GenerateToken(uuid.New(), user.RoleMember)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		router := newAuthRouter(t, svc, "")
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/protected", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		otherSvc := jwt.NewService("other-secret", time.Hour)
		token, err := otherSvc.GenerateToken(uuid.New(), user.RoleMember)
		require.NoError(t, err)

		router := newAuthRouter(t, svc, "")
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/protected", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func TestRequireRoleAtLeast(t *testing.T) {
	svc := jwt.NewService("test-secret", time.Hour)

	cases := []struct {
		name       string
		role       user.Role
		minRole    user.Role
		expectCode int
	}{
		{name: "viewer meets viewer", role: user.RoleViewer, minRole: user.RoleViewer, expectCode: http.StatusOK},
		{name: "viewer below member", role: user.RoleViewer, minRole: user.RoleMember, expectCode: http.StatusForbidden},
		{name: "member meets member", role: user.RoleMember, minRole: user.RoleMember, expectCode: http.StatusOK},
		{name: "member below coordinator", role: user.RoleMember, minRole: user.RoleCoordinator, expectCode: http.StatusForbidden},
		{name: "coordinator meets member", role: user.RoleCoordinator, minRole: user.RoleMember, expectCode: http.StatusOK},
		{name: "coordinator meets coordinator", role: user.RoleCoordinator, minRole: user.RoleCoordinator, expectCode: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newAuthRouter(t, svc, tc.minRole)
			token, err := svc.GenerateToken(uuid.New(), tc.role)
			require.NoError(t, err)

			rec := httptest.PerformRequest(t, router, http.MethodGet, "/protected", nil, token)
			assert.Equal(t, tc.expectCode, rec.Code)
		})
	}
}
