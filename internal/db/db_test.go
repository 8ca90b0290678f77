package db

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := DB
	DB = sqlx.NewDb(conn, "postgres")
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		DB.Close()
		DB = prev
	})
	return mock
}
