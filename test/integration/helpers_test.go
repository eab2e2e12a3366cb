// Package integration provides end-to-end tests for the job tracker API against real
// PostgreSQL and MySQL databases.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	apikeyService "github.com/allisson/jobtracker/internal/apikey/service"
	"github.com/allisson/jobtracker/internal/app"
	"github.com/allisson/jobtracker/internal/config"
	cryptoDomain "github.com/allisson/jobtracker/internal/crypto/domain"
	"github.com/allisson/jobtracker/internal/testutil"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// apiRequest describes one call against the test server.
type apiRequest struct {
	method string
	path   string
	body   any
	token  string
	// secret, when set, signs the request with the current time.
	secret string
}

func (ctx *integrationTestContext) do(t *testing.T, r apiRequest) (*http.Response, []byte) {
	t.Helper()

	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		require.NoError(t, err, "failed to marshal request body")
	}

	req, err := http.NewRequest(r.method, ctx.server.URL+r.path, bytes.NewReader(payload))
	require.NoError(t, err, "failed to create request")

	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set(apikeyDomain.HeaderAPIKey, r.token)
	}
	if r.secret != "" {
		ts := time.Now().Unix()
		req.Header.Set(apikeyDomain.HeaderTimestamp, strconv.FormatInt(ts, 10))
		req.Header.Set(apikeyDomain.HeaderSignature, apikeyService.Sign(r.secret, r.method, req.URL.Path, ts, payload))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// decode unmarshals a response body into T.
func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "failed to decode body: %s", string(body))
	return v
}

// secretFromToken returns the secret half of an "ak_<prefix>.<secret>" token.
func secretFromToken(t *testing.T, token string) string {
	t.Helper()
	_, secret, err := apikeyDomain.ParseToken(token)
	require.NoError(t, err)
	return secret
}

// setupIntegrationTest migrates a clean database and serves the fully wired router.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("set INTEGRATION_TEST=1 to run integration tests")
	}

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		dsn = testutil.PostgresDSNForTest(t)
		db = testutil.SetupPostgresDBWithDSN(t, dsn)
	} else {
		testutil.SkipIfNoMySQL(t)
		dsn = testutil.GetMySQLTestDSN()
		db = testutil.SetupMySQLDB(t)
	}

	key, err := cryptoDomain.GenerateKey()
	require.NoError(t, err)

	cfg := &config.Config{
		AppEnv:               "test",
		LogLevel:             "error",
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		APIKeyEncSecret:      base64.StdEncoding.EncodeToString(key),
		APIKeyEncAlgorithm:   string(cryptoDomain.AESGCM),
		SignatureTolerance:   5 * time.Minute,
	}
	cryptoDomain.Zero(key)

	container := app.NewContainer(cfg)

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	testServer := httptest.NewServer(httpSrv.Handler())

	ctx := &integrationTestContext{
		container: container,
		db:        db,
		server:    testServer,
		dbDriver:  dbDriver,
	}
	t.Cleanup(func() { teardownIntegrationTest(t, ctx) })
	return ctx
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

// forEachDriver runs fn against PostgreSQL and MySQL.
func forEachDriver(t *testing.T, fn func(t *testing.T, ctx *integrationTestContext)) {
	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			fn(t, setupIntegrationTest(t, driver))
		})
	}
}
