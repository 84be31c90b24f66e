package service

import (
	"errors"

	"microblog/internal/repository"
)

var (
	// ErrNotFound is the repository sentinel, re-exported for handlers.
	ErrNotFound = repository.ErrNotFound

	ErrForbidden          = errors.New("действие доступно только автору")
	ErrSelfFollow         = errors.New("нельзя подписаться на самого себя")
	ErrUsernameTaken      = errors.New("пользователь с таким именем уже существует")
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	ErrUnknownGroup       = errors.New("группа не существует")
	ErrEmptyText          = errors.New("текст не может быть пустым")
	ErrStorageUnavailable = errors.New("хранилище изображений недоступно")
)
