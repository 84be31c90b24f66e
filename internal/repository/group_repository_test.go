package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/models"
)

var groupColumns = []string{"id", "title", "slug", "description"}

func TestGroupRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	t.Run("Успешное создание группы", func(t *testing.T) {
		group := &models.Group{Title: "Коты", Slug: "cats", Description: "Про котов"}

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO groups (title, slug, description)")).
			WithArgs("Коты", "cats", "Про котов").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

		require.NoError(t, repo.Create(ctx, group))
		assert.Equal(t, int64(4), group.ID)
	})

	t.Run("Слаг занят", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO groups")).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, &models.Group{Title: "Коты", Slug: "cats"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})
}

func TestGroupRepository_Lookup(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	t.Run("Группа по слагу", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM groups WHERE slug = $1`)).
			WithArgs("cats").
			WillReturnRows(sqlmock.NewRows(groupColumns).AddRow(4, "Коты", "cats", ""))

		group, err := repo.GetBySlug(ctx, "cats")

		require.NoError(t, err)
		assert.Equal(t, "Коты", group.Title)
	})

	t.Run("Неизвестный слаг", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM groups WHERE slug = $1`)).
			WithArgs("dogs").
			WillReturnError(sql.ErrNoRows)

		group, err := repo.GetBySlug(ctx, "dogs")

		assert.Nil(t, group)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Группа по ID", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM groups WHERE id = $1`)).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Список групп", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM groups ORDER BY title`)).
			WillReturnRows(sqlmock.NewRows(groupColumns).
				AddRow(4, "Коты", "cats", "").
				AddRow(5, "Собаки", "dogs", ""))

		groups, err := repo.List(ctx)

		require.NoError(t, err)
		assert.Len(t, groups, 2)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
