package session

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	selectSession = `SELECT \* FROM "sessions" WHERE id = \$1 AND expires_at > \$2`
	upsertSession = `INSERT INTO "sessions" .* ON CONFLICT \("id"\) DO UPDATE SET`
	deleteExpired = regexp.QuoteMeta(`DELETE FROM "sessions" WHERE expires_at <= $1`)
	deleteSession = regexp.QuoteMeta(`DELETE FROM "sessions" WHERE id = $1`)
)

func newMockGormStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(db), mock
}

func sessionColumns() []string {
	return []string{"id", "data", "expires_at", "updated_at"}
}

func TestGormStoreLoad(t *testing.T) {
	store, mock := newMockGormStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(selectSession).
		WillReturnRows(sqlmock.NewRows(sessionColumns()).
			AddRow("abc", []byte(`{"allocateJourney:j1":{"prisonerNumber":"A1234BC"}}`), now.Add(time.Hour), now))

	s, err := store.Load(context.Background(), "abc")

	require.NoError(t, err)
	assert.False(t, s.IsNew())
	var got testJourney
	found, err := s.Get("allocateJourney:j1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "A1234BC", got.PrisonerNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreLoadMissingOrExpired(t *testing.T) {
	store, mock := newMockGormStore(t)

	// expired rows are filtered by the query, so both cases come back empty
	mock.ExpectQuery(selectSession).WillReturnRows(sqlmock.NewRows(sessionColumns()))

	_, err := store.Load(context.Background(), "gone")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreLoadFailure(t *testing.T) {
	store, mock := newMockGormStore(t)
	mock.ExpectQuery(selectSession).WillReturnError(errors.New("connection reset"))

	_, err := store.Load(context.Background(), "abc")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGormStoreSaveUpserts(t *testing.T) {
	store, mock := newMockGormStore(t)
	s := New("abc")
	require.NoError(t, s.Set("waitlistJourney:j2", testJourney{PrisonerNumber: "B2222BB"}))

	mock.ExpectExec(upsertSession).
		WithArgs("abc", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), s, time.Hour))

	assert.False(t, s.IsNew())
	assert.False(t, s.Modified())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreSaveFailureKeepsSessionDirty(t *testing.T) {
	store, mock := newMockGormStore(t)
	s := New("abc")
	require.NoError(t, s.Set("k", "v"))
	mock.ExpectExec(upsertSession).WillReturnError(errors.New("disk full"))

	err := store.Save(context.Background(), s, time.Hour)

	require.Error(t, err)
	assert.True(t, s.IsNew())
	assert.True(t, s.Modified())
}

func TestGormStoreDestroy(t *testing.T) {
	store, mock := newMockGormStore(t)
	mock.ExpectExec(deleteSession).WithArgs("abc").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Destroy(context.Background(), "abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStorePurgeExpired(t *testing.T) {
	store, mock := newMockGormStore(t)
	mock.ExpectExec(deleteExpired).WithArgs(sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := store.PurgeExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgerRunsAndStopsOnce(t *testing.T) {
	store, mock := newMockGormStore(t)
	mock.ExpectExec(deleteExpired).WillReturnResult(sqlmock.NewResult(0, 2))

	purger := NewPurger(store, 10*time.Millisecond)
	purger.Start(context.Background())

	assert.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil }, time.Second, 5*time.Millisecond)
	assert.NotPanics(t, func() {
		purger.Stop()
		purger.Stop()
	})
}
