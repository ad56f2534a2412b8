package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDocumentStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM content_documents WHERE key = \$1`).
		WithArgs("menu").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"categories":[]}`))

	store := NewPostgresDocumentStore(db)
	raw, err := store.Get(context.Background(), "menu")
	require.NoError(t, err)
	assert.JSONEq(t, `{"categories":[]}`, string(raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDocumentStore_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM content_documents`).
		WithArgs("orders").
		WillReturnError(sql.ErrNoRows)

	_, err = NewPostgresDocumentStore(db).Get(context.Background(), "orders")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresDocumentStore_PutUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO content_documents .* ON CONFLICT \(key\)`).
		WithArgs("settings", `{"onlineOrderingEnabled":true}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewPostgresDocumentStore(db).Put(context.Background(), "settings", []byte(`{"onlineOrderingEnabled":true}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDocumentStore_PutWrapsDriverError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO content_documents`).WillReturnError(errors.New("connection reset"))

	err = NewPostgresDocumentStore(db).Put(context.Background(), "menu", []byte(`{}`))
	assert.ErrorIs(t, err, ErrDatabaseError)
}

func TestPostgresBlobStore_ListAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT key FROM content_blobs ORDER BY key`).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("menu/1-a.png").AddRow("menu/2-b.jpg"))
	mock.ExpectExec(`DELETE FROM content_blobs WHERE key = \$1`).
		WithArgs("menu/1-a.png").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPostgresBlobStore(db)
	keys, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"menu/1-a.png", "menu/2-b.jpg"}, keys)

	require.NoError(t, store.Delete(context.Background(), "menu/1-a.png"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
