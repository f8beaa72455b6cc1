package controller

import (
	"net/http"
	"os"
	"net/http/httptest"
	"testing"
	"time"

	"inc/auth"
	"inc/client"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, subject string, roles ...string) string {
	t.Helper()
	token, err := auth.CreateToken(subject, roles)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/events/step_1", RateLimitMiddleware(client.NewMemoryCounter(time.Minute), 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/events/step_1", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodPost, "/events/step_1", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodPost, "/events/step_1", nil)
	other.RemoteAddr = "10.1.2.3:4000"
	assert.Equal(t, http.StatusCreated, serve(r, other).Code)
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimitMiddleware(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AuthMiddleware([]string{auth.RoleAdmin}), func(c *gin.Context) {
		c.String(http.StatusOK, claimsFrom(c).Subject)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, "CO-J1234567", auth.RoleJudge))
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, "root", auth.RoleViewer, auth.RoleAdmin))
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "root", w.Body.String())

	token, err := auth.CreateToken("cookie-admin", []string{auth.RoleAdmin})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: authCookie, Value: token})
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-admin", w.Body.String())
}

func TestRequireSubject(t *testing.T) {
	r := gin.New()
	r.GET("/judge/profile/:jid", AuthMiddleware([]string{auth.RoleJudge, auth.RoleAdmin}), func(c *gin.Context) {
		if !requireSubject(c, c.Param("jid")) {
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/judge/profile/CO-JAAAAAAA", nil)
	req.Header.Set("Authorization", bearer(t, "CO-JAAAAAAA", auth.RoleJudge))
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/judge/profile/CO-JBBBBBBB", nil)
	req.Header.Set("Authorization", bearer(t, "CO-JAAAAAAA", auth.RoleJudge))
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/judge/profile/CO-JBBBBBBB", nil)
	req.Header.Set("Authorization", bearer(t, "root", auth.RoleAdmin))
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestTicketFromRequest(t *testing.T) {
	r := gin.New()
	r.GET("/events/ticket", func(c *gin.Context) {
		c.String(http.StatusOK, ticketFromRequest(c))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/events/ticket?ticket=INC-CQUERY", nil))
	assert.Equal(t, "INC-CQUERY", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/events/ticket", nil)
	req.AddCookie(&http.Cookie{Name: ticketCookie, Value: "INC-CCOOKIE"})
	assert.Equal(t, "INC-CCOOKIE", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/events/ticket?ticket=INC-CQUERY", nil)
	req.AddCookie(&http.Cookie{Name: ticketCookie, Value: "INC-CCOOKIE"})
	assert.Equal(t, "INC-CQUERY", serve(r, req).Body.String())

	assert.Empty(t, serve(r, httptest.NewRequest(http.MethodGet, "/events/ticket", nil)).Body.String())
}
