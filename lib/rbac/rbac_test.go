package rbac

import (
	"testing"
	"travel-order-backend/models"

	"github.com/stretchr/testify/require"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/travel-orders/{id}/submit [post]")
		require.Nil(t, err)
		require.Equal(t, POST, method)
		r1 := pathToRegex(path)
		require.True(t, r1.MatchString("/api/v1/travel-orders/123-321/submit"))
		require.False(t, r1.MatchString("/api/v1/travel-orders/submit"))

		path, method, err = parseSwaggerPattern("/api/v1/travel-orders/{id}/attachments/{attachmentId} [get]")
		require.Nil(t, err)
		require.Equal(t, GET, method)
		r2 := pathToRegex(path)
		require.True(t, r2.MatchString("/api/v1/travel-orders/qwe-123/attachments/ewr-321"))
		require.False(t, r2.MatchString("/api/v1/travel-orders/qwe-123/attachments"))
	})
	t.Run("pattern without method", func(t *testing.T) {
		_, _, err := parseSwaggerPattern("/api/v1/travel-orders")
		require.NotNil(t, err)
	})

	provider := NewInstance()
	allowed := func(method, path string, role models.UserRole) bool {
		ruleFunc, ok := provider.GetRuleFunc(method, path)
		require.True(t, ok, "%s %s has no rule", method, path)
		return ruleFunc("user-1", role, path)
	}
	t.Run("personnel routes", func(t *testing.T) {
		require.True(t, allowed("POST", "/api/v1/travel-orders", models.PersonnelRole))
		require.False(t, allowed("POST", "/api/v1/travel-orders", models.DirectorRole))
		require.False(t, allowed("POST", "/api/v1/travel-orders/abc/submit", models.IctAdminRole))
	})
	t.Run("exact path wins over pattern", func(t *testing.T) {
		require.True(t, allowed("GET", "/api/v1/travel-orders/directors/available/", models.PersonnelRole))
		require.False(t, allowed("GET", "/api/v1/travel-orders/directors/available", models.DirectorRole))
		require.True(t, allowed("GET", "/api/v1/travel-orders/abc", models.DirectorRole))
	})
	t.Run("delete reaches the handler for every role", func(t *testing.T) {
		for _, role := range AllRoles {
			require.True(t, allowed("DELETE", "/api/v1/travel-orders/abc", role))
		}
	})
	t.Run("admins never act", func(t *testing.T) {
		require.False(t, allowed("POST", "/api/v1/director/travel-orders/abc/action", models.IctAdminRole))
		require.True(t, allowed("POST", "/api/v1/director/travel-orders/abc/action", models.DirectorRole))
		require.True(t, allowed("POST", "/api/v1/auth/logout-all", models.IctAdminRole))
	})
	t.Run("unknown route", func(t *testing.T) {
		_, ok := provider.GetRuleFunc("GET", "/api/v1/unknown")
		require.False(t, ok)
	})
	t.Run("permissions", func(t *testing.T) {
		permissions := provider.GetPermissions(models.DirectorRole)
		require.Contains(t, permissions[models.ApprovalModule], models.FlowPermission)
		require.NotContains(t, permissions, models.PersonnelModule)
		require.Contains(t, provider.GetPermissions(models.IctAdminRole), models.TimeLogModule)
	})
}
