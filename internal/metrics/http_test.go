package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success_RecordHTTPMetrics", func(t *testing.T) {
		provider, err := NewProvider("waitlist_test")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		middleware := HTTPMetricsMiddleware(provider.MeterProvider(), "waitlist_test")

		router := gin.New()
		router.Use(middleware)
		router.GET("/api/waitlist/count", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"count": 0})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/waitlist/count", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
		provider.Handler().ServeHTTP(w, req)

		assertMetricLine(
			t,
			w.Body.String(),
			`waitlist_test_http_requests_total`,
			`method="GET".*path="/api/waitlist/count".*status_code="200"`,
			`1`,
		)
	})

	t.Run("Success_RecordMultipleStatuses", func(t *testing.T) {
		provider, err := NewProvider("waitlist_test")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		middleware := HTTPMetricsMiddleware(provider.MeterProvider(), "waitlist_test")

		router := gin.New()
		router.Use(middleware)
		router.POST("/api/waitlist", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})
		router.GET("/error", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
		})

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/waitlist", nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusCreated, w.Code)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/error", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Success_CatchAllUsesRoutePattern", func(t *testing.T) {
		provider, err := NewProvider("waitlist_test")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		middleware := HTTPMetricsMiddleware(provider.MeterProvider(), "waitlist_test")

		router := gin.New()
		router.Use(middleware)
		router.NoRoute(func(c *gin.Context) {
			c.String(http.StatusOK, "index")
		})

		// Different frontend URLs must not create one series per path.
		for _, path := range []string{"/about", "/pricing", "/some/deep/route"} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, path, nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}

func TestRoutePattern(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "RoutePattern",
			input:    "/api/waitlist/count",
			expected: "/api/waitlist/count",
		},
		{
			name:     "UnmatchedRoute",
			input:    "",
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, routePattern(tt.input))
		})
	}
}
