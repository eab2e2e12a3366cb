package integration

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apikeyDTO "github.com/allisson/jobtracker/internal/apikey/http/dto"
	applicationDTO "github.com/allisson/jobtracker/internal/application/http/dto"
	"github.com/allisson/jobtracker/internal/testutil"
	userDTO "github.com/allisson/jobtracker/internal/user/http/dto"
)

const unauthorizedBody = `{"error":"unauthorized","message":"Missing or invalid API key"}`

// createUserAndKey registers a user and issues one API key for them.
func createUserAndKey(t *testing.T, ctx *integrationTestContext, email string) (userDTO.UserResponse, apikeyDTO.CreateAPIKeyResponse) {
	t.Helper()

	resp, body := ctx.do(t, apiRequest{
		method: http.MethodPost,
		path:   "/users",
		body:   map[string]any{"email": email, "full_name": "Integration User"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	user := decode[userDTO.UserResponse](t, body)

	resp, body = ctx.do(t, apiRequest{
		method: http.MethodPost,
		path:   "/api-keys",
		body:   map[string]any{"user_id": user.ID, "name": "integration"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	key := decode[apikeyDTO.CreateAPIKeyResponse](t, body)

	return user, key
}

func TestIntegration_Health_BasicChecks(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		resp, body := ctx.do(t, apiRequest{method: http.MethodGet, path: "/healthz"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"status":"ok","db":"ok"}`, string(body))

		resp, body = ctx.do(t, apiRequest{method: http.MethodGet, path: "/ready"})
		assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.JSONEq(t, `{"status":"ready"}`, string(body))
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	})
}

func TestIntegration_APIKey_CompleteFlow(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		user, key := createUserAndKey(t, ctx, "flow-"+ctx.dbDriver+"@example.com")

		t.Run("token is returned once and shaped correctly", func(t *testing.T) {
			assert.Regexp(t, `^ak_[A-Za-z0-9_-]{12}\.[A-Za-z0-9_-]{43}$`, key.Token)
			assert.Equal(t, user.ID, key.UserID)
			assert.True(t, key.IsActive)
			assert.Nil(t, key.LastUsedAt)
		})

		t.Run("secret is stored encrypted", func(t *testing.T) {
			secret := secretFromToken(t, key.Token)
			var stored string
			query := "SELECT secret_enc FROM api_keys WHERE prefix = $1"
			if ctx.dbDriver == "mysql" {
				query = "SELECT secret_enc FROM api_keys WHERE prefix = ?"
			}
			require.NoError(t, ctx.db.QueryRow(query, key.Prefix).Scan(&stored))
			assert.NotContains(t, stored, secret)
		})

		t.Run("authenticated list", func(t *testing.T) {
			resp, body := ctx.do(t, apiRequest{method: http.MethodGet, path: "/api/applications", token: key.Token})
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			assert.JSONEq(t, `{"items":[],"total":0,"limit":20,"offset":0}`, string(body))
		})

		t.Run("last used is recorded", func(t *testing.T) {
			resp, body := ctx.do(t, apiRequest{method: http.MethodGet, path: "/api-keys/" + user.ID})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			keys := decode[[]apikeyDTO.APIKeyResponse](t, body)
			require.Len(t, keys, 1)
			assert.NotNil(t, keys[0].LastUsedAt)
			assert.NotContains(t, string(body), "token")
		})

		t.Run("missing and malformed credentials", func(t *testing.T) {
			for _, token := range []string{"", "not-a-token", "ak_short.secret"} {
				resp, body := ctx.do(t, apiRequest{method: http.MethodGet, path: "/api/applications", token: token})
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
				assert.JSONEq(t, unauthorizedBody, string(body))
			}
		})

		t.Run("wrong secret with a valid prefix", func(t *testing.T) {
			forged := "ak_" + key.Prefix + ".AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
			resp, body := ctx.do(t, apiRequest{method: http.MethodGet, path: "/api/applications", token: forged})
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.JSONEq(t, unauthorizedBody, string(body))
		})

		t.Run("revoked key is rejected", func(t *testing.T) {
			resp, _ := ctx.do(t, apiRequest{method: http.MethodDelete, path: "/api-keys/" + key.ID})
			require.Equal(t, http.StatusNoContent, resp.StatusCode)

			resp, _ = ctx.do(t, apiRequest{method: http.MethodDelete, path: "/api-keys/" + key.ID})
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)

			resp, body := ctx.do(t, apiRequest{method: http.MethodGet, path: "/api/applications", token: key.Token})
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.JSONEq(t, unauthorizedBody, string(body))
		})
	})
}

func TestIntegration_APIKey_Validation(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		resp, _ := ctx.do(t, apiRequest{
			method: http.MethodPost,
			path:   "/api-keys",
			body:   map[string]any{"user_id": "00000000-0000-7000-8000-000000000000", "name": "ghost"},
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = ctx.do(t, apiRequest{
			method: http.MethodPost,
			path:   "/api-keys",
			body:   map[string]any{"user_id": "not-a-uuid", "name": "bad"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		assert.Zero(t, testutil.CountRows(t, ctx.db, "api_keys"))
	})
}

func TestIntegration_SignedRequests(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		_, key := createUserAndKey(t, ctx, "signed-"+ctx.dbDriver+"@example.com")
		secret := secretFromToken(t, key.Token)

		t.Run("valid signature", func(t *testing.T) {
			resp, body := ctx.do(t, apiRequest{
				method: http.MethodPost,
				path:   "/api/applications",
				token:  key.Token,
				secret: secret,
				body:   map[string]any{"company": "Acme", "role_title": "Backend Engineer"},
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		})

		t.Run("signature from another secret", func(t *testing.T) {
			resp, body := ctx.do(t, apiRequest{
				method: http.MethodPost,
				path:   "/api/applications",
				token:  key.Token,
				secret: "some-other-secret",
				body:   map[string]any{"company": "Acme", "role_title": "SRE"},
			})
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.JSONEq(t, unauthorizedBody, string(body))
		})

		t.Run("unsigned requests are accepted", func(t *testing.T) {
			resp, body := ctx.do(t, apiRequest{method: http.MethodGet, path: "/api/applications", token: key.Token})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			list := decode[applicationDTO.ListApplicationsResponse](t, body)
			assert.Equal(t, int64(1), list.Total)
		})
	})
}

func TestIntegration_Applications_CompleteFlow(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		user, key := createUserAndKey(t, ctx, "apps-"+ctx.dbDriver+"@example.com")

		for i, company := range []string{"Acme", "Globex", "Initech"} {
			resp, body := ctx.do(t, apiRequest{
				method: http.MethodPost,
				path:   "/api/applications",
				token:  key.Token,
				body: map[string]any{
					"company":    company,
					"role_title": "Engineer " + strconv.Itoa(i),
					"status":     "applied",
					"notes":      `<b>referral</b><script>alert(1)</script>`,
				},
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
			created := decode[applicationDTO.ApplicationResponse](t, body)
			assert.Equal(t, user.ID, created.UserID)
			require.NotNil(t, created.Notes)
			assert.NotContains(t, *created.Notes, "<script>")
		}

		resp, body := ctx.do(t, apiRequest{method: http.MethodGet, path: "/api/applications?limit=2", token: key.Token})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		page := decode[applicationDTO.ListApplicationsResponse](t, body)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, "Initech", page.Items[0].Company)

		resp, _ = ctx.do(t, apiRequest{method: http.MethodGet, path: "/api/applications?status=unknown", token: key.Token})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		resp, _ = ctx.do(t, apiRequest{
			method: http.MethodPost,
			path:   "/api/applications",
			token:  key.Token,
			body:   map[string]any{"company": "", "role_title": ""},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}
