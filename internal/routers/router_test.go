package routers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/app"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/dao"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testEnv struct {
	app    *app.App
	engine http.Handler
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.RegisterCustom()

	cfg := &app.AppConfig{}
	require.NoError(t, defaults.Set(cfg))
	cfg.Database.Path = filepath.Join(t.TempDir(), "router.sqlite3")
	cfg.Security.AuthTokenKey = "router-test-key"
	cfg.Security.MinClientVersion = "1.0.0"

	db, err := dao.NewDBEngineWithConfig(cfg.DaoConfig())
	require.NoError(t, err)

	a, err := app.NewApp(cfg, zaptest.NewLogger(t), db)
	require.NoError(t, err)
	require.NoError(t, a.Dao.Migrate())
	t.Cleanup(func() { _ = a.Close() })

	token, err := a.TokenManager.Generate(42, "tester", "127.0.0.1")
	require.NoError(t, err)

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, zh.New())

	return &testEnv{app: a, engine: NewRouter(a, uni), token: token}
}

type envelope struct {
	Code    int             `json:"code"`
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, auth bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestVersionIsPublic(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodGet, "/api/version?clientVersion=0.9.0", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Status)
	assert.Equal(t, app.Version, w.Header().Get("X-Pdf-Link-Service-Version"))

	var v struct {
		Version         string `json:"version"`
		ClientSupported bool   `json:"clientSupported"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, app.Version, v.Version)
	assert.False(t, v.ClientSupported)
}

func TestAuthRequired(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodGet, "/api/notes", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Status)
}

func TestUnknownRoute(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodGet, "/api/nope", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Status)
}

func TestNoteAndLinkFlow(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodPost, "/api/note", map[string]any{
		"title":   "Reading notes",
		"format":  "html",
		"content": "<p>Chapter two</p>",
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.True(t, env.Status)

	var note struct {
		ID      int64 `json:"id"`
		Version int64 `json:"version"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &note))
	require.NotZero(t, note.ID)

	w, env = e.do(t, http.MethodPost, "/api/pdf-link", map[string]any{
		"noteId":       note.ID,
		"noteVersion":  note.Version,
		"pageNumber":   12,
		"outlineTitle": "Methods",
		"fileUrl":      "https://example.com/paper.pdf",
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var link struct {
		LinkID      string `json:"linkId"`
		Payload     string `json:"payload"`
		Label       string `json:"label"`
		NoteVersion int64  `json:"noteVersion"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &link))
	assert.Equal(t, "See Methods", link.Label)
	assert.Equal(t, note.Version+1, link.NoteVersion)

	w, env = e.do(t, http.MethodPut, "/api/pdf-link/bookmark", map[string]any{
		"noteId":      note.ID,
		"noteVersion": link.NoteVersion,
		"linkId":      link.LinkID,
		"title":       "  Key result  ",
		"color":       "#E53935",
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var edited struct {
		Label   string `json:"label"`
		Payload string `json:"payload"`
		Updated int    `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &edited))
	assert.Equal(t, "Key result", edited.Label)
	assert.Equal(t, 1, edited.Updated)

	w, env = e.do(t, http.MethodGet, "/api/note/pdf-links?id="+itoa(note.ID), nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var links struct {
		Links []struct {
			ID            string `json:"id"`
			PageNumber    int    `json:"pageNumber"`
			BookmarkColor string `json:"bookmarkColor"`
			Label         string `json:"label"`
		} `json:"links"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &links))
	require.Len(t, links.Links, 1)
	assert.Equal(t, link.LinkID, links.Links[0].ID)
	assert.Equal(t, 12, links.Links[0].PageNumber)
	assert.Equal(t, "#E53935", links.Links[0].BookmarkColor)
	assert.Equal(t, "Key result", links.Links[0].Label)

	w, env = e.do(t, http.MethodPost, "/api/pdf-link/resolve", map[string]any{"payload": edited.Payload}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var target struct {
		LinkID     string `json:"linkId"`
		PageNumber int    `json:"pageNumber"`
		FileURL    string `json:"fileUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &target))
	assert.Equal(t, link.LinkID, target.LinkID)
	assert.Equal(t, 12, target.PageNumber)
	assert.Equal(t, "https://example.com/paper.pdf", target.FileURL)

	w, _ = e.do(t, http.MethodGet, "/api/note/html?id="+itoa(note.ID), nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-pdf-note-link="true"`)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/note/html?id="+itoa(note.ID), nil)
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestResolveRejectsCorruptPayload(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodPost, "/api/pdf-link/resolve", map[string]any{"payload": "not a payload"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Status)
}

func TestCreateLinkLimitsTrimmedTitleAndPage(t *testing.T) {
	e := newTestEnv(t)
	create := func(title string, page int) (*httptest.ResponseRecorder, envelope) {
		return e.do(t, http.MethodPost, "/api/pdf-link", map[string]any{
			"pageNumber":    page,
			"fileUrl":       "https://example.com/paper.pdf",
			"bookmarkTitle": title,
		}, true)
	}

	title := strings.Repeat("t", 100)
	w, env := create("  "+title+"  ", 3)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var link struct {
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &link))
	assert.Equal(t, title, link.Label)

	w, env = create(title+"t", 3)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 701, env.Code)

	w, _ = create("", 1<<30+1)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaletteLocalizedError(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodGet, "/api/pdf-link/palette?color=%23abc", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var p struct {
		Accent string `json:"accent"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "#aabbcc", p.Accent)

	w, env = e.do(t, http.MethodGet, "/api/note?id=999&lang=zh-CN", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "笔记不存在", env.Message)
}

func TestPrivateRouter(t *testing.T) {
	r := NewPrivateRouter("release", zaptest.NewLogger(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, DefaultPrefix+"/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
