package handlers

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// Form carries submitted values and per-field errors back to a template.
// Errors not tied to a field are stored under "form".
type Form struct {
	Values map[string]string
	Errors map[string]string
}

func NewForm() *Form {
	return &Form{
		Values: make(map[string]string),
		Errors: make(map[string]string),
	}
}

func (f *Form) Get(field string) string {
	if f == nil {
		return ""
	}
	return f.Values[field]
}

func (f *Form) Error(field string) string {
	if f == nil {
		return ""
	}
	return f.Errors[field]
}

// AddError keeps the first message per field.
func (f *Form) AddError(field, message string) {
	if _, exists := f.Errors[field]; !exists {
		f.Errors[field] = message
	}
}

func (f *Form) Valid() bool {
	return len(f.Errors) == 0
}

type PostForm struct {
	Text  string `form:"text" validate:"required,max=10000"`
	Group string `form:"group" validate:"omitempty,numeric"`
}

type CommentForm struct {
	Text string `form:"text" validate:"required,max=2000"`
}

type SignupForm struct {
	FirstName       string `form:"first_name" validate:"max=150"`
	LastName        string `form:"last_name" validate:"max=150"`
	Username        string `form:"username" validate:"required,max=150,username"`
	Email           string `form:"email" validate:"omitempty,email"`
	Password        string `form:"password1" validate:"required,min=8"`
	PasswordConfirm string `form:"password2" validate:"required,eqfield=Password"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// NewValidator returns a validator that reports fields by their form names
// and knows the username rule.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

var validationMessages = map[string]string{
	"required": "Обязательное поле.",
	"max":      "Слишком длинное значение.",
	"min":      "Значение слишком короткое.",
	"email":    "Введите правильный адрес электронной почты.",
	"username": "Допустимы только буквы, цифры и символы @/./+/-/_.",
	"eqfield":  "Введенные пароли не совпадают.",
	"numeric":  "Выберите корректный вариант.",
}

// validateInto runs the validator on v and copies field errors into form.
func (h *Handlers) validateInto(form *Form, v interface{}) {
	err := h.Validate.Struct(v)
	if err == nil {
		return
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		form.AddError("form", "Неверные данные")
		return
	}

	for _, fe := range validationErrors {
		message, ok := validationMessages[fe.Tag()]
		if !ok {
			message = "Неверное значение."
		}
		form.AddError(fe.Field(), message)
	}
}
