package middlewares

import (
	"emr-service/internal/app/config"
	"emr-service/internal/pkg/constvars"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequireAPIKey(t *testing.T) {
	logger := zap.NewNop()

	testAPIKey := "test-internal-api-key-12345"
	internalConfig := &config.InternalConfig{
		App: config.App{
			InternalAPIKey: testAPIKey,
		},
	}

	middlewares := NewMiddlewares(logger, internalConfig)

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	t.Run("Valid API Key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/fhir/register-extensions", nil)
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		handler := middlewares.RequireAPIKey(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK for valid API key")
		assert.Equal(t, "success", rr.Body.String())
	})

	t.Run("Missing API Key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/fhir/register-extensions", nil)

		rr := httptest.NewRecorder()
		handler := middlewares.RequireAPIKey(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized for missing API key")
	})

	t.Run("Invalid API Key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/fhir/register-extensions", nil)
		req.Header.Set(constvars.HeaderAPIKey, "invalid-api-key")

		rr := httptest.NewRecorder()
		handler := middlewares.RequireAPIKey(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized for invalid API key")
	})

	t.Run("Unconfigured Key Disables The Check", func(t *testing.T) {
		openMiddlewares := NewMiddlewares(logger, &config.InternalConfig{})

		req := httptest.NewRequest("POST", "/api/v1/fhir/register-extensions", nil)

		rr := httptest.NewRecorder()
		handler := openMiddlewares.RequireAPIKey(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "should pass through when no key is configured")
	})
}

func TestRequestID(t *testing.T) {
	middlewares := NewMiddlewares(zap.NewNop(), &config.InternalConfig{})

	t.Run("Generates Request ID When Absent", func(t *testing.T) {
		var seenRequestID string
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenRequestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/queue", nil)
		rr := httptest.NewRecorder()
		middlewares.RequestID(testHandler).ServeHTTP(rr, req)

		assert.True(t, strings.HasPrefix(seenRequestID, constvars.REQUEST_ID_PREFIX))
		assert.Equal(t, seenRequestID, rr.Header().Get(constvars.HeaderRequestID), "response header must echo the generated ID")
	})

	t.Run("Honors Client Supplied Request ID", func(t *testing.T) {
		var seenRequestID string
		var seenClientFlag bool
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenRequestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			seenClientFlag, _ = r.Context().Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY).(bool)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/queue", nil)
		req.Header.Set(constvars.HeaderRequestID, "client-chosen-id")
		rr := httptest.NewRecorder()
		middlewares.RequestID(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, "client-chosen-id", seenRequestID)
		assert.True(t, seenClientFlag)
	})
}

func TestErrorHandler(t *testing.T) {
	middlewares := NewMiddlewares(zap.NewNop(), &config.InternalConfig{})

	t.Run("Panic Becomes An Error Response", func(t *testing.T) {
		panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("handler blew up")
		})

		req := httptest.NewRequest("GET", "/api/v1/queue", nil)
		rr := httptest.NewRecorder()
		middlewares.ErrorHandler(panicking).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("Healthy Handler Untouched", func(t *testing.T) {
		healthy := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/queue", nil)
		rr := httptest.NewRecorder()
		middlewares.ErrorHandler(healthy).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
