package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cpm-backend/models"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/approvals/{id}/status [put]")
		require.Nil(t, err)
		require.Equal(t, PUT, method)
		r1 := pathToRegex(path)

		validUri := "/api/v1/approvals/123-321/status"
		isMatch := r1.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri := "/api/v1/approvals/status"
		isMatch = r1.MatchString(invalidUri)
		require.Equal(t, false, isMatch)

		path, method, err = parseSwaggerPattern("/api/v1/documents/{id}/container [put]")
		require.Nil(t, err)
		require.Equal(t, PUT, method)
		r2 := pathToRegex(path)

		validUri = "/api/v1/documents/qwe-ewr123-wr-12/container"
		isMatch = r2.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri = "/api/v1/documents/container"
		isMatch = r2.MatchString(invalidUri)
		require.Equal(t, false, isMatch)
	})

	t.Run(`registered rule is found and screens unknown roles`, func(t *testing.T) {
		i := &impl{
			rules:       map[HTTPMethod]*PathRule{},
			permissions: map[models.UserRole]map[models.Module][]models.Permission{},
		}
		i.initRules()

		handler, found := i.GetRuleFunc("PUT", "/api/v1/approvals/abc-123/status")
		require.Equal(t, true, found)
		require.Equal(t, true, handler("u1", models.ContributorRole, "/api/v1/approvals/abc-123/status"))
		require.Equal(t, false, handler("u1", models.UserRole("GHOST"), "/api/v1/approvals/abc-123/status"))

		handler, found = i.GetRuleFunc("DELETE", "/api/v1/documents/abc-123")
		require.Equal(t, true, found)
		require.Equal(t, true, handler("u1", models.BimManagerRole, "/api/v1/documents/abc-123"))
	})

	// The route layer must never filter writes by global role: a plain
	// USER can be a contributor on some project, and only the in-handler
	// permission gate knows the membership.
	t.Run(`write routes admit every known global role`, func(t *testing.T) {
		i := &impl{
			rules:       map[HTTPMethod]*PathRule{},
			permissions: map[models.UserRole]map[models.Module][]models.Permission{},
		}
		i.initRules()

		for _, pattern := range []struct {
			method HTTPMethod
			path   string
		}{
			{PUT, "/api/v1/approvals/doc-1/status"},
			{POST, "/api/v1/approvals"},
			{POST, "/api/v1/documents"},
			{PUT, "/api/v1/documents/doc-1/container"},
			{PUT, "/api/v1/documents/doc-1/version"},
			{DELETE, "/api/v1/documents/doc-1"},
		} {
			handler, found := i.GetRuleFunc(string(pattern.method), pattern.path)
			require.Equal(t, true, found, pattern.path)
			require.Equal(t, true, handler("u1", models.UserRoleDefault, pattern.path), pattern.path)
			require.Equal(t, true, handler("u1", models.ViewerRole, pattern.path), pattern.path)
		}
	})
}
