package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
	apperrors "github.com/haierkeys/fast-note-pdf-link-service/pkg/errors"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLangWithTranslator(t *testing.T) {
	uni := ut.New(en.New(), en.New(), zh.New())
	r := gin.New()
	r.Use(LangWithTranslator(uni, "en"))
	r.GET("/", func(c *gin.Context) {
		_, hasTrans := c.Get(app.TransKey)
		assert.True(t, hasTrans)
		c.String(http.StatusOK, c.GetString(app.LangKey))
	})

	cases := []struct {
		name   string
		query  string
		header map[string]string
		want   string
	}{
		{"default", "", nil, code.LangEN},
		{"query", "?lang=zh_cn", nil, code.LangZH},
		{"header", "", map[string]string{"lang": "zh-CN"}, code.LangZH},
		{"accept-language", "", map[string]string{"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8"}, code.LangZH},
		{"unsupported", "?lang=fr", nil, code.LangEN},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, serve(r, req).Body.String())
		})
	}
}

func TestUserAuthToken(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "secret"})
	token, err := tm.Generate(42, "reader", "127.0.0.1")
	require.NoError(t, err)

	r := gin.New()
	r.Use(UserAuthToken(tm))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": app.GetUID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":42}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/?token="+token+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware(true, ""))
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, c.GetString(apperrors.TraceIDKey), GetTraceID(c.Request.Context()))
		c.String(http.StatusOK, GetTraceIDFromGin(c))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(DefaultTraceIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DefaultTraceIDHeader, "given-id")
	assert.Equal(t, "given-id", serve(r, req).Body.String())
}

func TestRateLimiterAndRecovery(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key: "/limited", FillInterval: time.Hour, Capacity: 1, Quantum: 1,
	})
	r := gin.New()
	r.Use(RecoveryWithLogger(zap.NewNop()), RateLimiter(l))
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.NoRoute(NoFound())

	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/limited", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/limited?x=1", nil)).Code)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")

	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil)).Code)
}
