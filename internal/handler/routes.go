package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"microblog/internal/metrics"
	"microblog/internal/middleware"
)

// pageCacheKey varies cached pages by viewer so that navigation for a
// signed-in user is never served to anyone else.
func pageCacheKey(r *http.Request) string {
	viewer := "anon"
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		viewer = "user:" + strconv.FormatInt(user.ID, 10)
	}
	return viewer + ":" + r.URL.RequestURI()
}

// Routes builds the application router. Session parsing and per-route metrics
// run inside it; outer concerns such as logging are added by the caller.
func (h *Handlers) Routes() *mux.Router {
	r := mux.NewRouter().StrictSlash(true)

	auth := middleware.Auth(h.AuthService, h.Cfg.SessionCookie)
	r.Use(middleware.Metrics, mux.MiddlewareFunc(auth))

	login := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireLogin(fn)
	}

	r.Handle("/", h.PageCache.Middleware(pageCacheKey)(http.HandlerFunc(h.Index))).Methods(http.MethodGet)
	r.HandleFunc("/group/{slug}/", h.GroupPosts).Methods(http.MethodGet)
	r.HandleFunc("/profile/{username}/", h.Profile).Methods(http.MethodGet)
	r.Handle("/profile/{username}/follow/", login(h.ProfileFollow)).Methods(http.MethodGet)
	r.Handle("/profile/{username}/unfollow/", login(h.ProfileUnfollow)).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}/", h.PostDetail).Methods(http.MethodGet)
	r.Handle("/posts/{id:[0-9]+}/edit/", login(h.PostEdit)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/posts/{id:[0-9]+}/delete/", login(h.PostDelete)).Methods(http.MethodPost)
	r.Handle("/posts/{id:[0-9]+}/comment/", login(h.AddComment)).Methods(http.MethodPost)
	r.Handle("/create/", login(h.PostCreate)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/follow/", login(h.FollowIndex)).Methods(http.MethodGet)

	r.HandleFunc("/about/author/", h.AboutAuthor).Methods(http.MethodGet)
	r.HandleFunc("/about/tech/", h.AboutTech).Methods(http.MethodGet)

	r.HandleFunc("/auth/signup/", h.Signup).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/auth/login/", h.Login).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/auth/logout/", h.Logout).Methods(http.MethodGet, http.MethodPost)

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = auth(http.HandlerFunc(h.NotFound))

	return r
}
