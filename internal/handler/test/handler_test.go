package test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"microblog/internal/cache"
	"microblog/internal/config"
	handlers "microblog/internal/handler"
	"microblog/internal/models"
	"microblog/internal/service"
)

type recordingRenderer struct {
	next   handlers.Renderer
	name   string
	status int
	data   *handlers.ViewData
}

func (r *recordingRenderer) Render(w http.ResponseWriter, status int, name string, data *handlers.ViewData) error {
	r.name, r.status, r.data = name, status, data
	return r.next.Render(w, status, name, data)
}

type testApp struct {
	t        *testing.T
	db       *memDB
	storage  *memStorage
	svc      *service.Service
	h        *handlers.Handlers
	router   http.Handler
	rendered *recordingRenderer
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:        "test-secret",
		AccessTokenDuration: time.Hour,
		SessionCookie:       "session",
		MaxUploadSize:       1 << 20,
	}
}

func newTestApp(t *testing.T, pageCache *cache.PageCache) *testApp {
	t.Helper()

	db := newMemDB()
	store := newMemStorage()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig()

	svc := service.NewService(db.repository(), cfg, store, logger)
	h, err := handlers.NewHandlers(svc, pageCache, stubHealth{}, cfg, logger)
	require.NoError(t, err)

	rendered := &recordingRenderer{next: h.Renderer}
	h.Renderer = rendered

	return &testApp{
		t:        t,
		db:       db,
		storage:  store,
		svc:      svc,
		h:        h,
		router:   h.Routes(),
		rendered: rendered,
	}
}

func (a *testApp) createUser(username string) *models.User {
	a.t.Helper()
	user, err := a.svc.Auth.Register(context.Background(), service.RegisterRequest{
		Username: username,
		Password: "password123",
	})
	require.NoError(a.t, err)
	return user
}

func (a *testApp) createGroup(title, slug string) *models.Group {
	a.t.Helper()
	group, err := a.svc.Group.Create(context.Background(), title, slug, "")
	require.NoError(a.t, err)
	return group
}

func (a *testApp) createPost(author *models.User, text string, group *models.Group) *models.Post {
	a.t.Helper()
	req := service.CreatePostRequest{AuthorID: author.ID, Text: text}
	if group != nil {
		groupID := group.ID
		req.GroupID = &groupID
	}
	post, err := a.svc.Post.CreatePost(context.Background(), req)
	require.NoError(a.t, err)
	return post
}

func (a *testApp) do(req *http.Request, user *models.User) *httptest.ResponseRecorder {
	a.t.Helper()
	if user != nil {
		token, err := a.svc.Auth.IssueToken(user)
		require.NoError(a.t, err)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}

	a.rendered.name, a.rendered.data = "", nil
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) get(path string, user *models.User) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), user)
}

func (a *testApp) postForm(path string, user *models.User, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, user)
}

func (a *testApp) postMultipart(path string, user *models.User, fields map[string]string, fileName string, content []byte) *httptest.ResponseRecorder {
	a.t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(a.t, writer.WriteField(k, v))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("image", fileName)
		require.NoError(a.t, err)
		_, err = part.Write(content)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return a.do(req, user)
}

func postPath(post *models.Post, suffix string) string {
	return "/posts/" + strconv.FormatInt(post.ID, 10) + "/" + suffix
}
