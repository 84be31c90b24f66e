package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		DbHOST:     "db",
		DbPORT:     "5432",
		DbUSER:     "u",
		DbPASSWORD: "p",
		DbNAME:     "blog",
		DbSSLMODE:  "disable",
	}}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=blog sslmode=disable", DSN(cfg))
}

func TestRunMigrations(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{sqlx.NewDb(sqlDB, "sqlmock")}

	t.Run("Миграции применены", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, db.RunMigrations(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка выполнения миграции", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).
			WillReturnError(errors.New("syntax error"))

		err := db.RunMigrations(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка при выполнении миграции")
	})
}

func TestHealthCheck(t *testing.T) {
	var db *DB
	assert.Error(t, db.HealthCheck(context.Background()))

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	db = &DB{sqlx.NewDb(sqlDB, "sqlmock")}
	assert.NoError(t, db.HealthCheck(context.Background()))
}
