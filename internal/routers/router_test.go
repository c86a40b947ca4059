package routers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/haierkeys/locket-service/internal/app"
	"github.com/haierkeys/locket-service/internal/app/apptest"
	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/middleware"
	"github.com/haierkeys/locket-service/internal/routers/web_router"
	"github.com/haierkeys/locket-service/pkg/validator"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Code    int            `json:"code"`
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func newEngine(t *testing.T, mutate ...func(*app.AppConfig)) (*app.App, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	uni, err := validator.Install(
		validator.Enum{Tag: "locket_category", Values: domain.CategoryValues()},
		validator.Enum{Tag: "locket_status", Values: domain.StatusValues()},
	)
	require.NoError(t, err)
	a := apptest.New(t, mutate...)
	return a, NewRouter(a, uni)
}

func do(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = sonic.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func jsonReq(method, target, token, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func formReq(target, token string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	return req
}

func TestRouter_HealthAndNotFound(t *testing.T) {
	_, r := newEngine(t)

	w, env := do(r, jsonReq(http.MethodGet, "/api/health", "", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", env.Data["status"])
	assert.Equal(t, "connected", env.Data["database"])

	w, _ = do(r, jsonReq(http.MethodGet, "/api/nothing-here", "", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	_, r := newEngine(t)

	w, env := do(r, jsonReq(http.MethodGet, "/api/links/recent", "", ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Status)

	w, _ = do(r, jsonReq(http.MethodGet, "/api/links/recent", "not-a-token", ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ShareThenUpdate(t *testing.T) {
	a, r := newEngine(t)
	alice := apptest.User(t, a, "alice")
	token := apptest.Token(t, a, alice)

	w, env := do(r, jsonReq(http.MethodPost, "/api/links", token, `{"url":"https://example.com/cool-article","thoughts":"good one"}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, false, env.Data["already_bookmarked"])
	userLink := env.Data["user_link"].(map[string]any)
	id := int64(userLink["id"].(float64))

	w, env = do(r, jsonReq(http.MethodGet, "/api/links/recent?limit=5", token, ""))
	require.Equal(t, http.StatusOK, w.Code)
	meta := env.Data["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["count"])
	assert.Equal(t, float64(5), meta["limit"])

	w, _ = do(r, jsonReq(http.MethodGet, "/api/links/recent?limit=26", token, ""))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	target := "/api/user-links/" + strconv.FormatInt(id, 10)
	w, env = do(r, jsonReq(http.MethodPatch, target, token, `{"status":"reading"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Link updated!", env.Data["message"])

	w, _ = do(r, jsonReq(http.MethodPatch, target, token, `{"status":"done"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	bob := apptest.User(t, a, "bob")
	w, _ = do(r, jsonReq(http.MethodPatch, target, apptest.Token(t, a, bob), `{"status":"read"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(r, jsonReq(http.MethodGet, "/api/statuses/mine", token, ""))
	require.Equal(t, http.StatusOK, w.Code)
	list := env.Data["list"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "good one", list[0].(map[string]any)["status"])
}

func TestRouter_WebFormRedirectsWithFlash(t *testing.T) {
	a, r := newEngine(t)
	alice := apptest.User(t, a, "alice")
	token := apptest.Token(t, a, alice)

	w, _ := do(r, formReq("/links", token, url.Values{"url": {"https://example.com/docs"}, "category": {"reference"}}))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	var flash *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == web_router.FlashCookie {
			flash = ck
		}
	}
	require.NotNil(t, flash)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	req.AddCookie(flash)
	w, env := do(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	f := env.Data["flash"].(map[string]any)
	assert.Equal(t, web_router.FlashSuccess, f["type"])
	assert.Equal(t, "Link added to your collection and status shared!", f["message"])
	assert.Len(t, env.Data["bookmarks"].([]any), 1)

	// missing category comes back as a field error
	req = formReq("/links", token, url.Values{"url": {"https://example.com/other"}})
	req.Header.Set("Referer", "/somewhere")
	w, _ = do(r, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/somewhere", w.Header().Get("Location"))
}

func TestRouter_HomeIsPublic(t *testing.T) {
	_, r := newEngine(t)

	w, env := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, env.Data, "user")
}

func TestRouter_MCPDisabled(t *testing.T) {
	_, r := newEngine(t, func(c *app.AppConfig) { c.MCP.Enabled = false })

	w, _ := do(r, jsonReq(http.MethodPost, "/mcp", "", `{}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrivateRouter_Metrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewPrivateRouter(gin.ReleaseMode, zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, DefaultPrefix+"/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
