package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"microblog/internal/middleware"
	"microblog/internal/models"
	"microblog/internal/service"
	"microblog/internal/storage"
)

func pageNumber(r *http.Request) int {
	return service.ParsePageNumber(r.URL.Query().Get("page"))
}

func postIDFromPath(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func postURL(postID int64) string {
	return "/posts/" + strconv.FormatInt(postID, 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.PostService.Index(r.Context(), pageNumber(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "posts/index.html", &ViewData{Page: page})
}

func (h *Handlers) GroupPosts(w http.ResponseWriter, r *http.Request) {
	group, page, err := h.PostService.GroupFeed(r.Context(), mux.Vars(r)["slug"], pageNumber(r))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "posts/group_list.html", &ViewData{Group: group, Page: page})
}

func (h *Handlers) PostDetail(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFromPath(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	h.renderDetail(w, r, postID, NewForm())
}

// renderDetail shows a post with its comments; form carries the comment form state.
func (h *Handlers) renderDetail(w http.ResponseWriter, r *http.Request, postID int64, form *Form) {
	detail, err := h.PostService.Detail(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "posts/post_detail.html", &ViewData{
		Post:      detail.Post,
		Comments:  detail.Comments,
		PostCount: detail.AuthorPostCount,
		Form:      form,
	})
}

func (h *Handlers) PostCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if r.Method == http.MethodGet {
		h.renderPostForm(w, r, NewForm(), nil)
		return
	}

	form, groupID, upload, cleanup := h.readPostForm(w, r)
	defer cleanup()

	if form.Valid() {
		_, err := h.PostService.CreatePost(r.Context(), service.CreatePostRequest{
			AuthorID: user.ID,
			Text:     form.Get("text"),
			GroupID:  groupID,
			Image:    upload,
		})
		if err == nil {
			http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
			return
		}
		if !h.postFormError(form, err) {
			h.serverError(w, r, err)
			return
		}
	}

	h.renderPostForm(w, r, form, nil)
}

// PostEdit lets the author change a post. Anyone else is sent back to the post.
func (h *Handlers) PostEdit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	postID, ok := postIDFromPath(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	post, err := h.PostService.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	if post.AuthorID != user.ID {
		http.Redirect(w, r, postURL(postID), http.StatusFound)
		return
	}

	if r.Method == http.MethodGet {
		form := NewForm()
		form.Values["text"] = post.Text
		if post.GroupID != nil {
			form.Values["group"] = strconv.FormatInt(*post.GroupID, 10)
		}
		h.renderPostForm(w, r, form, post)
		return
	}

	form, groupID, upload, cleanup := h.readPostForm(w, r)
	defer cleanup()

	if form.Valid() {
		_, err := h.PostService.UpdatePost(r.Context(), service.UpdatePostRequest{
			PostID:  postID,
			UserID:  user.ID,
			Text:    form.Get("text"),
			GroupID: groupID,
			Image:   upload,
		})
		switch {
		case err == nil:
			http.Redirect(w, r, postURL(postID), http.StatusFound)
			return
		case errors.Is(err, service.ErrForbidden):
			http.Redirect(w, r, postURL(postID), http.StatusFound)
			return
		case errors.Is(err, service.ErrNotFound):
			h.NotFound(w, r)
			return
		case !h.postFormError(form, err):
			h.serverError(w, r, err)
			return
		}
	}

	h.renderPostForm(w, r, form, post)
}

func (h *Handlers) PostDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	postID, ok := postIDFromPath(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	_, err := h.PostService.DeletePost(r.Context(), postID, user.ID)
	switch {
	case err == nil:
		http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
	case errors.Is(err, service.ErrForbidden):
		http.Redirect(w, r, postURL(postID), http.StatusFound)
	case errors.Is(err, service.ErrNotFound):
		h.NotFound(w, r)
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	postID, ok := postIDFromPath(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	form := NewForm()
	if err := r.ParseForm(); err != nil {
		form.AddError("form", "Неверный формат запроса")
	}
	form.Values["text"] = strings.TrimSpace(r.PostForm.Get("text"))
	h.validateInto(form, CommentForm{Text: form.Get("text")})

	if !form.Valid() {
		h.renderDetail(w, r, postID, form)
		return
	}

	_, err := h.CommentService.AddComment(r.Context(), postID, user.ID, form.Get("text"))
	switch {
	case err == nil:
		http.Redirect(w, r, postURL(postID), http.StatusFound)
	case errors.Is(err, service.ErrNotFound):
		h.NotFound(w, r)
	case errors.Is(err, service.ErrEmptyText):
		form.AddError("text", validationMessages["required"])
		h.renderDetail(w, r, postID, form)
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handlers) FollowIndex(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	page, err := h.PostService.FollowFeed(r.Context(), user.ID, pageNumber(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "posts/follow.html", &ViewData{Page: page})
}

func (h *Handlers) renderPostForm(w http.ResponseWriter, r *http.Request, form *Form, post *models.Post) {
	groups, err := h.GroupService.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "posts/create_post.html", &ViewData{
		Form:   form,
		Groups: groups,
		Post:   post,
		IsEdit: post != nil,
	})
}

// readPostForm parses a post submission. The returned cleanup closes the
// uploaded file and must always be called.
func (h *Handlers) readPostForm(w http.ResponseWriter, r *http.Request) (*Form, *int64, *service.ImageUpload, func()) {
	form := NewForm()
	cleanup := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			form.AddError("image", "Файл слишком большой.")
		} else {
			form.AddError("form", "Неверный формат запроса")
		}
		return form, nil, nil, cleanup
	}

	form.Values["text"] = strings.TrimSpace(r.FormValue("text"))
	form.Values["group"] = strings.TrimSpace(r.FormValue("group"))
	h.validateInto(form, PostForm{Text: form.Get("text"), Group: form.Get("group")})

	var groupID *int64
	if raw := form.Get("group"); raw != "" && form.Error("group") == "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			form.AddError("group", validationMessages["numeric"])
		} else {
			groupID = &id
		}
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			form.AddError("image", "Не удалось прочитать файл.")
		}
		return form, groupID, nil, cleanup
	}

	cleanup = func() { file.Close() }

	switch {
	case !storage.IsAllowedImage(header.Filename):
		form.AddError("image", "Загрузите правильное изображение: jpeg, png, gif или webp.")
		return form, groupID, nil, cleanup
	case header.Size > h.Cfg.MaxUploadSize:
		form.AddError("image", "Файл слишком большой.")
		return form, groupID, nil, cleanup
	}

	return form, groupID, uploadFrom(file, header), cleanup
}

func uploadFrom(file multipart.File, header *multipart.FileHeader) *service.ImageUpload {
	return &service.ImageUpload{
		FileName: header.Filename,
		Reader:   file,
		Size:     header.Size,
	}
}

// postFormError maps service validation errors onto form fields and reports whether it did.
func (h *Handlers) postFormError(form *Form, err error) bool {
	switch {
	case errors.Is(err, service.ErrEmptyText):
		form.AddError("text", validationMessages["required"])
	case errors.Is(err, service.ErrUnknownGroup):
		form.AddError("group", "Выберите корректный вариант. Этого варианта нет среди допустимых значений.")
	case errors.Is(err, service.ErrStorageUnavailable):
		form.AddError("image", "Загрузка изображений временно недоступна.")
	default:
		return false
	}
	return true
}
