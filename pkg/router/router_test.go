package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pixelfit/backend/config"
	"github.com/pixelfit/backend/internal/middleware"
	"github.com/pixelfit/backend/pkg/errorx"
	"github.com/pixelfit/backend/pkg/logger"
	"github.com/pixelfit/backend/pkg/router"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type echoResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestRouter() *router.Router {
	cfg := &config.Configs{
		Env: "dev",
		Session: config.SessionConfigs{
			Name:       "pixelfit_session",
			Expiration: time.Hour,
			SameSite:   "lax",
		},
	}

	return router.New(nil, cfg, logger.NewLogger(logger.SILENCE))
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Name is required")
	}

	return &echoResponse{Name: req.Name, Count: req.Count}, nil
}

func Test_Router_Envelope(t *testing.T) {
	r := newTestRouter()
	router.GET(r, "/echo", echo)

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/echo?name=alice&count=3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Code int64        `json:"code"`
		Data echoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Zero(t, resp.Code)
	require.Equal(t, echoResponse{Name: "alice", Count: 3}, resp.Data)
}

func Test_Router_ErrorEnvelope(t *testing.T) {
	r := newTestRouter()
	router.GET(r, "/echo", echo)

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/echo", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Code  int64  `json:"code"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
	require.Equal(t, "Name is required", resp.Error)
}

func Test_Router_PostBody(t *testing.T) {
	r := newTestRouter()
	router.POST(r, "/echo", echo)

	body := strings.NewReader(`{"name": "alice", "count": 2}`)
	req := httptest.NewRequest("POST", "/echo", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Wrong method on the same pattern is not found.
	w = httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/echo", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

type cookieResponse struct{}

func (cookieResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return []http.Cookie{{Name: "pixelfit_session", Value: "token", Path: "/"}}
}

type redirectResponse struct{}

func (redirectResponse) RedirectInfo() (int, string) {
	return http.StatusFound, "https://example.com/next"
}

func Test_Router_AfterMiddlewares(t *testing.T) {
	r := newTestRouter()
	r.After(middleware.HandleSetCookie())
	r.After(middleware.HandleRedirect())

	router.GET(r, "/cookie",
		func(ctx context.Context, req *struct{}) (*cookieResponse, error) {
			return &cookieResponse{}, nil
		})
	router.GET(r, "/redirect",
		func(ctx context.Context, req *struct{}) (*redirectResponse, error) {
			return &redirectResponse{}, nil
		})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/cookie", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "pixelfit_session", cookies[0].Name)
	require.Equal(t, "token", cookies[0].Value)

	w = httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/redirect", nil))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com/next", w.Header().Get("Location"))
}
