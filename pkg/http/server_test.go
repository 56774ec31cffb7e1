package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Query string `json:"query" validate:"required,max=10"`
	Limit int    `json:"limit" default:"5" validate:"gte=1,lte=20"`
}

type testHandler struct{}

func (testHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/echo", func(c echo.Context) error {
		req := &echoRequest{}
		if verr := ReadAndValidateRequest(c, req); verr != nil {
			return BadRequestResponse(c, verr)
		}
		return SuccessResponse(c, req)
	})
	e.GET("/limited", func(c echo.Context) error {
		return AppErrorResponse(c, TooManyRequestsError("slow down"))
	})
	e.GET("/plain-error", func(c echo.Context) error {
		return AppErrorResponse(c, errors.New("boom"))
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("kaboom")
	})
}

func newTestServer() *Server {
	return NewServer(testHandler{})
}

func serve(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServer_ValidRequestAppliesDefaults(t *testing.T) {
	rec := serve(t, newTestServer(), http.MethodPost, "/echo", `{"query":"aapl"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status int         `json:"status"`
		Data   echoRequest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "aapl", resp.Data.Query)
	assert.Equal(t, 5, resp.Data.Limit)
}

func TestServer_ValidationErrors(t *testing.T) {
	rec := serve(t, newTestServer(), http.MethodPost, "/echo", `{"query":"","limit":50}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp APIResponse400Err
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Bad Request", resp.Message)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "ERR_REQUIRED", resp.Data[0].Code)
	assert.Equal(t, "query", resp.Data[0].Field)
	assert.Equal(t, "query is required", resp.Data[0].Message)
	assert.Equal(t, "ERR_LTE", resp.Data[1].Code)
	assert.Equal(t, "20", resp.Data[1].Params["max"])
}

func TestServer_MalformedBody(t *testing.T) {
	rec := serve(t, newTestServer(), http.MethodPost, "/echo", `{"query":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp APIResponse400Err
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "ERR_MALFORMED_REQUEST", resp.Data[0].Code)
}

func TestServer_AppErrorStatus(t *testing.T) {
	rec := serve(t, newTestServer(), http.MethodGet, "/limited", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp APIResponse429Err
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "ERR_RATE_LIMITED", resp.Data[0].Code)
	assert.Equal(t, "slow down", resp.Data[0].Message)
}

func TestServer_PlainErrorBecomesInternal(t *testing.T) {
	rec := serve(t, newTestServer(), http.MethodGet, "/plain-error", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestServer_RecoversFromPanic(t *testing.T) {
	rec := serve(t, newTestServer(), http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s := newTestServer()
	serve(t, s, http.MethodGet, "/limited", "")

	rec := serve(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `finassist_http_requests_total{method="GET",route="/limited",status="429"}`)
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example.com")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), echo.HeaderXRequestID)
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))
	assert.Equal(t, echo.HeaderOrigin, rec.Header().Get(echo.HeaderVary))
}

func TestServer_CORSRestrictedOrigins(t *testing.T) {
	s := NewServer(testHandler{}, WithCORSOrigins("https://app.example.com"))

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
		req.Header.Set(echo.HeaderOrigin, origin)
		rec := httptest.NewRecorder()
		s.Echo().ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, preflight("https://app.example.com").Code)

	denied := preflight("https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.Empty(t, denied.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example.com")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, echo.HeaderXRequestID, rec.Header().Get(echo.HeaderAccessControlExposeHeaders))
}

func TestServer_Options(t *testing.T) {
	s := NewServer(nil, WithHost("127.0.0.1"), WithPort(9999), WithMetrics(false))
	assert.Equal(t, "127.0.0.1:9999", s.Addr())

	rec := serve(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
