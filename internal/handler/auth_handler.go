package handlers

import (
	"errors"
	"net/http"
	"strings"

	"microblog/internal/service"
)

func (h *Handlers) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Cfg.AccessTokenDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext accepts only local paths so that login cannot redirect off-site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "users/signup.html", nil)
		return
	}

	form := NewForm()
	if err := r.ParseForm(); err != nil {
		form.AddError("form", "Неверный формат запроса")
	}

	for _, field := range []string{"first_name", "last_name", "username", "email"} {
		form.Values[field] = strings.TrimSpace(r.PostForm.Get(field))
	}

	req := SignupForm{
		FirstName:       form.Get("first_name"),
		LastName:        form.Get("last_name"),
		Username:        form.Get("username"),
		Email:           form.Get("email"),
		Password:        r.PostForm.Get("password1"),
		PasswordConfirm: r.PostForm.Get("password2"),
	}
	h.validateInto(form, req)

	if !form.Valid() {
		h.render(w, r, http.StatusOK, "users/signup.html", &ViewData{Form: form})
		return
	}

	user, err := h.AuthService.Register(r.Context(), service.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			form.AddError("username", "Пользователь с таким именем уже существует.")
			h.render(w, r, http.StatusOK, "users/signup.html", &ViewData{Form: form})
			return
		}
		h.serverError(w, r, err)
		return
	}

	token, err := h.AuthService.IssueToken(user)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.setSession(w, token)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "users/login.html", &ViewData{Next: safeNext(r.URL.Query().Get("next"))})
		return
	}

	form := NewForm()
	if err := r.ParseForm(); err != nil {
		form.AddError("form", "Неверный формат запроса")
	}

	next := safeNext(r.PostForm.Get("next"))
	form.Values["username"] = strings.TrimSpace(r.PostForm.Get("username"))
	req := LoginForm{
		Username: form.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	h.validateInto(form, req)

	if form.Valid() {
		_, token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
		if err == nil {
			h.setSession(w, token)
			http.Redirect(w, r, next, http.StatusFound)
			return
		}
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.serverError(w, r, err)
			return
		}
		form.AddError("form", "Введите правильные имя пользователя и пароль.")
	}

	h.render(w, r, http.StatusOK, "users/login.html", &ViewData{Form: form, Next: next})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
