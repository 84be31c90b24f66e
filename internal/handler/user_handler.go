package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"microblog/internal/middleware"
	"microblog/internal/service"
)

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	author, err := h.UserService.GetByUsername(ctx, mux.Vars(r)["username"])
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	page, err := h.PostService.ProfileFeed(ctx, author.ID, pageNumber(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	var following bool
	if viewer, ok := middleware.UserFromContext(ctx); ok {
		following, err = h.FollowService.IsFollowing(ctx, viewer.ID, author.ID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
	}

	h.render(w, r, http.StatusOK, "posts/profile.html", &ViewData{
		Author:    author,
		Page:      page,
		Following: following,
		PostCount: page.Total,
	})
}

// ProfileFollow subscribes the current user to the author. Following yourself
// is silently ignored; every outcome except an unknown author redirects to the profile.
func (h *Handlers) ProfileFollow(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	username := mux.Vars(r)["username"]

	author, err := h.FollowService.Follow(r.Context(), user.ID, username)
	if err != nil && !errors.Is(err, service.ErrSelfFollow) {
		if errors.Is(err, service.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, profileURL(author.Username), http.StatusFound)
}

func (h *Handlers) ProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	username := mux.Vars(r)["username"]

	author, err := h.FollowService.Unfollow(r.Context(), user.ID, username)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, profileURL(author.Username), http.StatusFound)
}
