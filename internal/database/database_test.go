package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySchema_BuiltIn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS content_documents`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, applySchema(context.Background(), db, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySchema_FromFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	path := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE custom_docs (k TEXT);"), 0o600))
	mock.ExpectExec(`CREATE TABLE custom_docs`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, applySchema(context.Background(), db, path))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySchema_MissingFile(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, applySchema(context.Background(), db, "/does/not/exist.sql"))
}
