// Package integration provides end-to-end integration tests for the waitlist API.
// Tests the signup flow against both PostgreSQL and MySQL databases with a stubbed
// Brevo backend.
package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavoo/waitlist/internal/brevo"
	"github.com/lavoo/waitlist/internal/database"
	"github.com/lavoo/waitlist/internal/health"
	internalHTTP "github.com/lavoo/waitlist/internal/http"
	"github.com/lavoo/waitlist/internal/testutil"
	waitlistHTTP "github.com/lavoo/waitlist/internal/waitlist/http"
	waitlistRepository "github.com/lavoo/waitlist/internal/waitlist/repository"
	waitlistUsecase "github.com/lavoo/waitlist/internal/waitlist/usecase"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	db          *sql.DB
	server      *httptest.Server
	brevoServer *httptest.Server
	dbDriver    string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, resp.Body.Close(), "failed to close response body")

	return resp, respBody
}

// newBrevoStub returns a fake Brevo API accepting contact creation and
// answering account lookups.
func newBrevoStub() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 4242}`)
	})
	mux.HandleFunc("/account", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"email":"owner@example.com","companyName":"Example Inc","plan":[{"type":"free"}]}`)
	})
	return httptest.NewServer(mux)
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var db *sql.DB
	var entryRepo waitlistUsecase.EntryRepository
	if dbDriver == "postgres" {
		testutil.SkipIfNoPostgres(t)
		db = testutil.SetupPostgresDB(t)
		entryRepo = waitlistRepository.NewPostgreSQLEntryRepository(db)
	} else {
		testutil.SkipIfNoMySQL(t)
		db = testutil.SetupMySQLDB(t)
		entryRepo = waitlistRepository.NewMySQLEntryRepository(db)
	}

	brevoServer := newBrevoStub()

	brevoClient := brevo.NewClient(
		"test-api-key",
		7,
		logger,
		brevo.WithBaseURL(brevoServer.URL),
	)

	txManager := database.NewTxManager(db)
	useCase := waitlistUsecase.NewWaitlistUseCase(txManager, entryRepo, brevoClient)
	checker := health.NewChecker(entryRepo, brevoClient, "test", logger)

	server := internalHTTP.NewServer(
		internalHTTP.Config{
			Host:      "localhost",
			Port:      8000,
			StaticDir: t.TempDir(),
		},
		internalHTTP.Handlers{
			Waitlist: waitlistHTTP.NewWaitlistHandler(useCase, logger),
			Health:   checker,
			Brevo:    brevoClient,
		},
		nil,
		logger,
	)

	testServer := httptest.NewServer(server.GetHandler())

	return &integrationTestContext{
		db:          db,
		server:      testServer,
		brevoServer: brevoServer,
		dbDriver:    dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.brevoServer != nil {
		ctx.brevoServer.Close()
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

// signupResponse mirrors the waitlist signup payload for assertions.
type signupResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
	Data      *struct {
		Email           string `json:"email"`
		Position        int64  `json:"position"`
		RegisteredAt    string `json:"registered_at"`
		BrevoSyncStatus string `json:"brevo_sync_status"`
	} `json:"data"`
}

func TestIntegration_Waitlist_SignupFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, dbDriver := range []string{"postgres", "mysql"} {
		t.Run(dbDriver, func(t *testing.T) {
			ctx := setupIntegrationTest(t, dbDriver)
			defer teardownIntegrationTest(t, ctx)

			// First signup lands at position one
			resp, body := ctx.makeRequest(t, http.MethodPost, "/api/waitlist", map[string]string{
				"email": "First@Example.com",
				"name":  "First Person",
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

			var first signupResponse
			require.NoError(t, json.Unmarshal(body, &first))
			assert.True(t, first.Success)
			require.NotNil(t, first.Data)
			assert.Equal(t, "first@example.com", first.Data.Email)
			assert.Equal(t, int64(1), first.Data.Position)
			assert.Equal(t, "success", first.Data.BrevoSyncStatus)

			// Second distinct email lands at position two
			resp, body = ctx.makeRequest(t, http.MethodPost, "/api/waitlist", map[string]string{
				"email": "second@example.com",
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

			var second signupResponse
			require.NoError(t, json.Unmarshal(body, &second))
			require.NotNil(t, second.Data)
			assert.Equal(t, int64(2), second.Data.Position)

			// Repeated email answers 200 with the duplicate error code
			resp, body = ctx.makeRequest(t, http.MethodPost, "/api/waitlist", map[string]string{
				"email": "FIRST@example.com",
			})
			require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

			var duplicate signupResponse
			require.NoError(t, json.Unmarshal(body, &duplicate))
			assert.False(t, duplicate.Success)
			assert.Equal(t, "EMAIL_ALREADY_EXISTS", duplicate.ErrorCode)
			require.NotNil(t, duplicate.Data)
			assert.Equal(t, "first@example.com", duplicate.Data.Email)

			// Count reflects only stored entries
			resp, body = ctx.makeRequest(t, http.MethodGet, "/api/waitlist/count", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var count struct {
				Success bool  `json:"success"`
				Count   int64 `json:"count"`
			}
			require.NoError(t, json.Unmarshal(body, &count))
			assert.True(t, count.Success)
			assert.Equal(t, int64(2), count.Count)

			// Invalid email never reaches storage
			resp, body = ctx.makeRequest(t, http.MethodPost, "/api/waitlist", map[string]string{
				"email": "not-an-email",
			})
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "body: %s", body)
		})
	}
}

func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t, "postgres")
	defer teardownIntegrationTest(t, ctx)

	resp, body := ctx.makeRequest(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		Status   string `json:"status"`
		Version  string `json:"version"`
		Services struct {
			Database struct {
				Status        string `json:"status"`
				WaitlistCount *int64 `json:"waitlist_count"`
			} `json:"database"`
			Brevo struct {
				Connected bool `json:"connected"`
			} `json:"brevo"`
		} `json:"services"`
	}
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, "test", report.Version)
	assert.Equal(t, "healthy", report.Services.Database.Status)
	require.NotNil(t, report.Services.Database.WaitlistCount)
	assert.True(t, report.Services.Brevo.Connected)
}

func TestIntegration_BrevoStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t, "postgres")
	defer teardownIntegrationTest(t, ctx)

	resp, body := ctx.makeRequest(t, http.MethodGet, "/api/brevo/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status struct {
		ListID int64 `json:"list_id"`
		Brevo  struct {
			Connected    bool   `json:"connected"`
			AccountEmail string `json:"account_email"`
		} `json:"brevo"`
	}
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, int64(7), status.ListID)
	assert.True(t, status.Brevo.Connected)
	assert.Equal(t, "owner@example.com", status.Brevo.AccountEmail)
}
