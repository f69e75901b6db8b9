package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/store"
)

const testID = "01ARZ3NDEKTSV4RRFFQ69G5FAV"

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestCollection_Find(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, doc FROM "listings" WHERE doc @> $1::jsonb ORDER BY doc ->> $2::text DESC LIMIT $3`,
	)).
		WithArgs(`{"category":"dogs"}`, "created_at", int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(testID, []byte(`{"category":"dogs","created_at":"2024-01-02T00:00:00.000Z"}`)))

	docs, err := s.Collection("listings").Find(context.Background(),
		store.Filter{"category": "dogs"},
		store.FindOptions{Sort: &store.Sort{Field: "created_at", Direction: store.Descending}, Limit: 6},
	)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, testID, docs[0][model.FieldID])
	assert.Equal(t, "dogs", docs[0]["category"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_FindEmptyFilter(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM "users"`)).
		WithArgs().
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	docs, err := s.Collection("users").Find(context.Background(), store.Filter{}, store.FindOptions{})
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_FindOne(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM "users" WHERE doc @> $1::jsonb LIMIT 1`)).
			WithArgs(`{"email":"a@x.com"}`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).AddRow(testID, []byte(`{"email":"a@x.com"}`)))

		doc, err := s.Collection("users").FindOne(context.Background(), store.Filter{"email": "a@x.com"})
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", doc.String("email"))
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM "users" WHERE id = $1 LIMIT 1`)).
			WithArgs(testID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

		_, err := s.Collection("users").FindOne(context.Background(), store.ByID(testID))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("driver failure", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM "users"`)).
			WillReturnError(errors.New("connection refused"))

		_, err := s.Collection("users").FindOne(context.Background(), store.ByID(testID))
		assert.ErrorIs(t, err, store.ErrUnavailable)
	})
}

func TestCollection_InsertOne(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "orders" (id, doc) VALUES ($1, $2::jsonb)`)).
			WithArgs(sqlmock.AnyArg(), `{"buyer_email":"b@x.com"}`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		res, err := s.Collection("orders").InsertOne(context.Background(),
			model.Document{"_id": "client-supplied", "buyer_email": "b@x.com"})
		require.NoError(t, err)

		_, err = s.ParseID(res.InsertedID.(string))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WithArgs(sqlmock.AnyArg(), `{"email":"a@x.com"}`).
			WillReturnError(&pgconn.PgError{Code: uniqueViolation})

		_, err := s.Collection("users").InsertOne(context.Background(), model.Document{"email": "a@x.com"})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestCollection_UpdateOne(t *testing.T) {
	stmt := regexp.QuoteMeta(`WITH target AS (SELECT id, doc FROM "orders" WHERE id = $1 LIMIT 1 FOR UPDATE) ` +
		`UPDATE "orders" AS t SET doc = t.doc || $2::jsonb FROM target WHERE t.id = target.id ` +
		`RETURNING target.doc IS DISTINCT FROM t.doc`)

	t.Run("modified", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(stmt).
			WithArgs(testID, `{"status":"paid"}`).
			WillReturnRows(sqlmock.NewRows([]string{"modified"}).AddRow(true))

		res, err := s.Collection("orders").UpdateOne(context.Background(), store.ByID(testID), model.Document{"status": "paid"})
		require.NoError(t, err)
		assert.Equal(t, &store.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, res)
	})

	t.Run("no match", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(stmt).
			WithArgs(testID, `{"status":"paid"}`).
			WillReturnRows(sqlmock.NewRows([]string{"modified"}))

		res, err := s.Collection("orders").UpdateOne(context.Background(), store.ByID(testID), model.Document{"status": "paid"})
		require.NoError(t, err)
		assert.Equal(t, &store.UpdateResult{}, res)
	})
}

func TestCollection_DeleteOne(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE id = (SELECT id FROM "orders" WHERE id = $1 LIMIT 1)`)).
		WithArgs(testID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := s.Collection("orders").DeleteOne(context.Background(), store.ByID(testID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ParseID(t *testing.T) {
	s := NewWithDB(nil)

	_, err := s.ParseID("65a1b2c3d4e5f6a7b8c9d0e1")
	assert.ErrorIs(t, err, store.ErrInvalidID)

	id, err := s.ParseID(testID)
	require.NoError(t, err)
	assert.Equal(t, testID, id)
}
